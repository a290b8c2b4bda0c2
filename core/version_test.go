//go:build unit
// +build unit

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetVersionPrefersBuildFlag(t *testing.T) {
	SetVersion(&Conf{Version: "from-conf"}, "from-build-flag")
	assert.Equal(t, "from-build-flag", Version)
}

func TestSetVersionFallsBackToConf(t *testing.T) {
	SetVersion(&Conf{Version: "from-conf"}, "")
	assert.Equal(t, "from-conf", Version)
}

func TestSetVersionFallsBackToNoVersion(t *testing.T) {
	SetVersion(&Conf{}, "")
	assert.Equal(t, NoVersion, Version)
}
