package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Persona 可选的提示词风格补充，追加在固定系统提示词之后。
type Persona struct {
	Name     string `yaml:"name"`
	Guidance string `yaml:"guidance"`
}

// LoadPersona 读取 persona 文件并返回补充文本；path 为空返回空串。
func LoadPersona(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var p Persona
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return "", fmt.Errorf("解析 persona 文件失败: %w", err)
	}
	return p.Guidance, nil
}
