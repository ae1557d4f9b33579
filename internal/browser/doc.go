// Package browser 通过go-rod驱动真实的浏览器标签页
//
// # 概述
//
// 删除流程的所有交互都在已渲染的站点页面上完成: 读取标题和正文、查询元素、
// 点击按钮、填写表单、跳转和刷新。browser包把这些操作封装为core.Driver,
// 使core包中的执行器和运行器不依赖具体的浏览器实现。
//
// # 核心组件
//
// ## Session
//
// 启动本地浏览器(可指定用户目录以复用站点登录会话)或连接已运行的浏览器,
// 选取一个标签页作为工作页面,并设置额外请求头部。
//
//	session, err := browser.Launch(ctx, cfg.Browser)
//	defer session.Close()
//
// ## RodDriver
//
// core.Driver的go-rod实现。点击和赋值通过页面内脚本完成,与站点自身的事件
// 监听器保持一致(派发冒泡的input事件)。
//
// ## Panel
//
// 注入到每个站点页面的控制面板: 文本框、Start、STOP、New list、Add All以及
// 列表页每个种子链接旁的Add按钮。面板通过page.Expose回调到Go,粘贴、拖放、
// 空格换行和添加链接的文本处理与CLI共用utils中的实现。
//
// ## 链接收集
//
// HarvestLinks从当前页面收集种子链接,HarvestHTML使用goquery从保存的HTML文件中收集。
package browser
