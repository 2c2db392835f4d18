package strategy

import "github.com/santhosh-tekuri/jsonschema/v5"

// 中文说明：
// 模型输出的结构契约。解析阶段先过这份 schema：任何结构性不符
// （缺字段/类型错/越界）都按解析失败处理，触发兜底决策。
// 杠杆上限依赖运行时配置，放在 Validate 里单独校验。

const decisionSchemaJSON = `{
  "type": "object",
  "required": ["action", "symbol", "confidence", "leverage",
               "position_size_pct", "stop_loss_pct", "take_profit_pct",
               "reasoning", "analysis"],
  "properties": {
    "action": {
      "type": "string",
      "enum": ["open_long", "open_short", "close_position",
               "add_position", "reduce_position", "hold"]
    },
    "symbol": {"type": "string"},
    "confidence": {"type": "number", "minimum": 0, "maximum": 100},
    "leverage": {"type": "integer", "minimum": 1},
    "position_size_pct": {"type": "number", "minimum": 0, "maximum": 100},
    "stop_loss_pct": {"type": "number"},
    "take_profit_pct": {"type": "number"},
    "entry_price": {"type": "number"},
    "stop_loss_price": {"type": "number"},
    "take_profit_price": {"type": "number"},
    "risk_reward_ratio": {"type": "number"},
    "reasoning": {"type": "string"},
    "analysis": {
      "type": "object",
      "properties": {
        "trend_analysis": {"type": "string"},
        "technical_signals": {"type": "string"},
        "risk_assessment": {"type": "string"},
        "market_sentiment": {"type": "string"},
        "key_levels": {"type": "string"},
        "decision_rationale": {"type": "string"}
      }
    },
    "metadata": {"type": "object"}
  }
}`

var decisionSchema = jsonschema.MustCompileString("decision.json", decisionSchemaJSON)
