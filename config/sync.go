package config

import (
	"fmt"
	"time"

	"github.com/dep2p/go-evsync/pkg/types"
)

// SyncConfig 事件同步器默认参数
type SyncConfig struct {
	// Storage 信号量存储策略：dynamic | static
	Storage string `json:"storage" yaml:"storage"`

	// StrictInit 为 true 时，未初始化的信号量上 Take/Give 返回错误，
	// 而不是按需创建二值信号量
	StrictInit bool `json:"strict_init" yaml:"strict_init"`

	// SaturationLogInterval 饱和告警日志的最小间隔
	SaturationLogInterval Duration `json:"saturation_log_interval" yaml:"saturation_log_interval"`
}

// DefaultSyncConfig 返回默认同步器配置
func DefaultSyncConfig() SyncConfig {
	return SyncConfig{
		Storage:               "dynamic",
		StrictInit:            false,
		SaturationLogInterval: Duration(time.Second),
	}
}

// Validate 验证同步器配置
func (c SyncConfig) Validate() error {
	if _, err := types.ParseStorage(c.Storage); err != nil {
		return err
	}
	if c.SaturationLogInterval < 0 {
		return fmt.Errorf("%w: sync.saturation_log_interval must be >= 0", types.ErrInvalidConfiguration)
	}
	return nil
}

// StorageKind 返回解析后的存储策略，无效值按动态存储处理
func (c SyncConfig) StorageKind() types.Storage {
	s, err := types.ParseStorage(c.Storage)
	if err != nil {
		return types.StorageDynamic
	}
	return s
}
