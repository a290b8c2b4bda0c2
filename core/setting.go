package core

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/oqtopus-team/cliffordt-optimizer/common"
)

var globalSetting *Setting

// Setting holds process-wide toml-sourced configuration that does not fit
// Conf's flat CLI/env shape: nested per-component tables registered at
// startup and decoded from a single settings file.
type Setting struct {
	ComponentSetting map[string]interface{} `toml:"com,omitempty"`
}

// ResetSetting reinitializes the global setting to an empty registry. Tests
// call this between cases; cmd/optimize's loadSetting calls it once at
// startup before registering the optimizer's layer-partitioner tuning.
func ResetSetting() {
	globalSetting = &Setting{ComponentSetting: make(map[string]interface{})}
}

// RegisterSetting adds settingVal under settingName before ParseSettingFromPath
// decodes the toml file, so decode fills in a concrete type rather than a
// generic map.
func RegisterSetting(settingName string, settingVal interface{}) {
	globalSetting.ComponentSetting[settingName] = settingVal
}

// ParseSettingFromPath reads and decodes the toml file at settingsPath into
// the registered component settings.
func ParseSettingFromPath(settingsPath string) error {
	tomlString, err := common.ReadSettingsFile(settingsPath)
	if err != nil {
		return err
	}
	return globalSetting.parseSetting(tomlString)
}

// GetGlobalSetting returns the process-wide Setting.
func GetGlobalSetting() *Setting {
	return globalSetting
}

// GetComponentSetting looks up a previously registered component setting by
// name.
func GetComponentSetting(name string) (interface{}, bool) {
	if globalSetting == nil {
		zap.L().Error("setting is not initialized")
		return nil, false
	}
	val, ok := globalSetting.ComponentSetting[name]
	return val, ok
}

func (s *Setting) parseSetting(tomlString string) error {
	var raw struct {
		ComponentSetting map[string]toml.Primitive `toml:"com"`
	}
	md, err := toml.Decode(tomlString, &raw)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to parse setting/reason:%s", err))
		return err
	}
	for name, prim := range raw.ComponentSetting {
		if registered, ok := s.ComponentSetting[name]; ok {
			err = md.PrimitiveDecode(prim, registered)
		} else {
			var generic map[string]interface{}
			err = md.PrimitiveDecode(prim, &generic)
			s.ComponentSetting[name] = generic
		}
		if err != nil {
			zap.L().Error(fmt.Sprintf("failed to parse setting %s/reason:%s", name, err))
			return err
		}
	}
	return nil
}
