// Package command 提供 menv 的命令行定义。
package command

import "github.com/lwmacct/261015-go-bin-menv/internal/config"

// Defaults 默认配置 - flag 默认值与配置加载共用同一来源
var Defaults = config.DefaultConfig()
