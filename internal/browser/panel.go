package browser

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RecoveryAshes/unit3d-autodelete/internal/core"
	"github.com/RecoveryAshes/unit3d-autodelete/internal/models"
	"github.com/RecoveryAshes/unit3d-autodelete/internal/utils"
	"github.com/go-rod/rod"
	"github.com/ysmood/gson"
)

// PanelBinding 页面中暴露给面板脚本的函数名
const PanelBinding = "autoDeleteCall"

//go:embed panel.js
var panelJS string

// PanelRequest 面板脚本发来的请求
type PanelRequest struct {
	Action         string   `json:"action"`
	Location       string   `json:"location"`
	Value          string   `json:"value"`
	SelectionStart int      `json:"selectionStart"`
	SelectionEnd   int      `json:"selectionEnd"`
	Text           string   `json:"text"`
	URLs           []string `json:"urls"`
}

// PanelResponse 返回给面板脚本的结果
type PanelResponse struct {
	Enabled        bool     `json:"enabled"`
	Value          string   `json:"value"`
	SelectionStart int      `json:"selectionStart"`
	SelectionEnd   int      `json:"selectionEnd"`
	Handled        bool     `json:"handled"`
	Progress       string   `json:"progress"`
	Running        bool     `json:"running"`
	ListLinks      string   `json:"listLinks"`
	Alert          string   `json:"alert,omitempty"`
	Alerts         []string `json:"alerts,omitempty"`
	Navigate       string   `json:"navigate,omitempty"`
}

// AlertSource 提供运行器产生的待显示提示
type AlertSource interface {
	Drain() []string
}

// Panel 页面内控制面板的Go端
type Panel struct {
	controller *core.Controller
	sites      core.SiteFilter
	listLinks  string
	alerts     AlertSource
	now        func() time.Time
}

// NewPanel 创建面板, alerts为nil时面板不显示运行器提示
func NewPanel(controller *core.Controller, sites core.SiteFilter, listLinks string, alerts AlertSource) *Panel {
	return &Panel{
		controller: controller,
		sites:      sites,
		listLinks:  listLinks,
		alerts:     alerts,
		now:        time.Now,
	}
}

// Install 在当前和之后加载的每个文档中注入面板
func (p *Panel) Install(ctx context.Context, page *rod.Page) (func(), error) {
	stopExpose, err := page.Expose(PanelBinding, func(payload gson.JSON) (interface{}, error) {
		var req PanelRequest
		if err := json.Unmarshal([]byte(payload.JSON("", "")), &req); err != nil {
			return nil, fmt.Errorf("解析面板请求失败: %w", err)
		}
		return p.Handle(ctx, req)
	})
	if err != nil {
		return nil, fmt.Errorf("注册面板回调失败: %w", err)
	}

	removeScript, err := page.EvalOnNewDocument(panelJS)
	if err != nil {
		_ = stopExpose()
		return nil, fmt.Errorf("注入面板脚本失败: %w", err)
	}

	// 当前文档立即显示
	if _, err := page.Eval(`() => { ` + panelJS + ` }`); err != nil {
		utils.Debugf("当前页面注入面板失败: %v", err)
	}

	utils.Info("🧩 控制面板已注入")
	return func() {
		_ = removeScript()
		_ = stopExpose()
	}, nil
}

// Handle 处理面板请求
func (p *Panel) Handle(ctx context.Context, req PanelRequest) (*PanelResponse, error) {
	resp := &PanelResponse{
		Enabled:   p.sites == nil || p.sites.Allowed(req.Location),
		Value:     req.Value,
		ListLinks: p.listLinks,
	}
	if !resp.Enabled {
		return resp, nil
	}

	switch req.Action {
	case "state":
		draft, err := p.controller.Draft(ctx)
		if err != nil {
			return nil, err
		}
		resp.Value = draft
		if p.alerts != nil {
			resp.Alerts = p.alerts.Drain()
		}

	case "input":
		if err := p.controller.SetDraft(ctx, req.Value); err != nil {
			return nil, err
		}

	case "paste":
		state := utils.Paste(p.input(req), req.Text)
		if err := p.apply(ctx, resp, state); err != nil {
			return nil, err
		}

	case "space":
		state, handled := utils.Space(p.input(req))
		resp.Handled = handled
		if handled {
			if err := p.apply(ctx, resp, state); err != nil {
				return nil, err
			}
		}

	case "drop":
		value := utils.Drop(req.Value, req.Text)
		if err := p.setValue(ctx, resp, value); err != nil {
			return nil, err
		}

	case "add", "addAll":
		if len(req.URLs) == 0 {
			resp.Alert = models.ErrNoLinks.Error()
			break
		}
		value := utils.Append(req.Value, req.URLs)
		if err := p.setValue(ctx, resp, value); err != nil {
			return nil, err
		}

	case "start":
		if err := p.controller.SetDraft(ctx, req.Value); err != nil {
			return nil, err
		}
		q, err := p.controller.Submit(ctx, strings.Split(req.Value, "\n"))
		if err != nil {
			if errors.Is(err, models.ErrEmptyQueue) || errors.Is(err, models.ErrSiteNotAllowed) || errors.Is(err, models.ErrInvalidURL) {
				resp.Alert = err.Error()
				break
			}
			return nil, err
		}
		resp.Navigate = q.URLs[0]

	case "stop":
		if err := p.controller.Stop(ctx); err != nil {
			return nil, err
		}
		resp.Alert = utils.MsgStopped
		resp.Navigate = models.CacheBust(req.Location, p.now())

	case "newList":
		if err := p.controller.NewList(ctx); err != nil {
			return nil, err
		}
		resp.Value = ""
		resp.Navigate = models.CacheBust(req.Location, p.now())

	default:
		return nil, fmt.Errorf("未知的面板操作: %s", req.Action)
	}

	q, err := p.controller.Queue(ctx)
	if err != nil {
		return nil, err
	}
	if q != nil {
		resp.Running = true
		resp.Progress = q.ProgressText()
	}
	return resp, nil
}

func (p *Panel) input(req PanelRequest) utils.InputState {
	return utils.InputState{
		Value:          req.Value,
		SelectionStart: req.SelectionStart,
		SelectionEnd:   req.SelectionEnd,
	}
}

func (p *Panel) apply(ctx context.Context, resp *PanelResponse, state utils.InputState) error {
	if err := p.controller.SetDraft(ctx, state.Value); err != nil {
		return err
	}
	resp.Value = state.Value
	resp.SelectionStart = state.SelectionStart
	resp.SelectionEnd = state.SelectionEnd
	return nil
}

func (p *Panel) setValue(ctx context.Context, resp *PanelResponse, value string) error {
	return p.apply(ctx, resp, utils.InputState{Value: value, SelectionStart: -1, SelectionEnd: -1})
}
