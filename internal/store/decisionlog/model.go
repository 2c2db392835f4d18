package decisionlog

import (
	"gorm.io/datatypes"
)

// DecisionModel 是决策日志的持久化结构，每次决策周期写入一行，
// 无论决策是否通过校验都保留，方便复盘。
type DecisionModel struct {
	ID              int64          `gorm:"column:id;primaryKey"`
	TraceID         string         `gorm:"column:trace_id;index"`
	Timestamp       int64          `gorm:"column:ts;index"`
	Symbol          string         `gorm:"column:symbol;index"`
	Action          string         `gorm:"column:action"`
	Confidence      float64        `gorm:"column:confidence"`
	Leverage        int            `gorm:"column:leverage"`
	PositionSizePct float64        `gorm:"column:position_size_pct"`
	StopLossPct     float64        `gorm:"column:stop_loss_pct"`
	TakeProfitPct   float64        `gorm:"column:take_profit_pct"`
	Reasoning       string         `gorm:"column:reasoning"`
	AnalysisJSON    datatypes.JSON `gorm:"column:analysis_json;type:TEXT"`
	MetadataJSON    datatypes.JSON `gorm:"column:metadata_json;type:TEXT"`
	Model           string         `gorm:"column:model"`
	RawResponse     string         `gorm:"column:raw_response"`
	IsFallback      bool           `gorm:"column:is_fallback"`
	Valid           bool           `gorm:"column:valid"`
	ValidationError string         `gorm:"column:validation_error"`
	CreatedAtUnix   int64          `gorm:"column:created_at"`
}

func (DecisionModel) TableName() string { return "decision_logs" }
