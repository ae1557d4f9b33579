package core

import (
	"testing"

	"github.com/RecoveryAshes/unit3d-autodelete/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantName  string
		wantValue string
		wantErr   bool
	}{
		{"标准格式", "X-Test: 1", "X-Test", "1", false},
		{"名称规范化", "accept-language:zh-CN", "Accept-Language", "zh-CN", false},
		{"值包含冒号", "Referer: https://blutopia.cc/", "Referer", "https://blutopia.cc/", false},
		{"缺少冒号", "X-Test", "", "", true},
		{"名称为空", ": v", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, value, err := ParseHeader(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

func TestHeaderManager_MergeAndPairs(t *testing.T) {
	hm, err := NewHeaderManager(
		map[string]string{"accept-language": "en", "X-Token": "abcdefghijkl"},
		[]string{"Accept-Language: zh-CN"},
	)
	require.NoError(t, err)

	pairs, err := hm.Pairs()
	require.NoError(t, err)
	assert.Equal(t, []string{"Accept-Language", "zh-CN", "X-Token", "abcdefghijkl"}, pairs)

	safe := hm.SafeHeaders()
	assert.Equal(t, "abcd***ijkl", safe["X-Token"])
}

func TestHeaderManager_RejectsForbidden(t *testing.T) {
	hm, err := NewHeaderManager(nil, []string{"Cookie: session=1"})
	require.NoError(t, err)

	_, err = hm.Headers()
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Cookie", verr.HeaderName)
}

func TestHeaderManager_RejectsControlChars(t *testing.T) {
	hm, err := NewHeaderManager(map[string]string{"X-Test": "a\nb"}, nil)
	require.NoError(t, err)

	_, err = hm.Headers()
	assert.Error(t, err)
}
