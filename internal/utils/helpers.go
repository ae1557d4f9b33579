package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/RecoveryAshes/unit3d-autodelete/internal/models"
)

// ReadURLsFromFile 从文件中读取URL列表
func ReadURLsFromFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开URL文件失败: %w", err)
	}
	defer file.Close()

	urls, err := ReadURLs(file)
	if err != nil {
		return nil, err
	}

	Infof("从文件加载了 %d 个URL", len(urls))
	return urls, nil
}

// ReadURLs 读取URL列表
// 每行可以包含多个以空白分隔的URL,跳过空行和#注释行以及无效URL
func ReadURLs(r io.Reader) ([]string, error) {
	urls := make([]string, 0)
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		for _, token := range SplitTokens(line) {
			if err := models.ValidateURL(token); err != nil {
				Warnf("跳过无效URL (行 %d): %s - %v", lineNum, token, err)
				continue
			}
			urls = append(urls, token)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("读取URL失败: %w", err)
	}

	return urls, nil
}
