//go:build unit

package util

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

type testEnvs struct {
	Root     string `env:"RELINK_BUILD_ROOT" envDefault:".pio/build" usage:"build output root"`
	Token    string `env:"TOKEN,required"`
	Ignored  string
	LogLevel string `env:"LOG_LEVEL,notEmpty"`
}

func TestExpectedEnvs(t *testing.T) {
	want := []EnvVar{
		{Name: "RELINK_BUILD_ROOT", Default: ".pio/build", Usage: "build output root"},
		{Name: "TOKEN", Required: true},
		{Name: "LOG_LEVEL"},
	}

	if diff := cmp.Diff(want, ExpectedEnvs[testEnvs]()); diff != "" {
		t.Errorf("ExpectedEnvs() mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatExpectedEnvList(t *testing.T) {
	want := "" +
		"- TOKEN             [Required]\n" +
		"- RELINK_BUILD_ROOT [Optional] build output root (default: .pio/build)\n" +
		"- LOG_LEVEL         [Optional]\n"

	assert.Equal(t, want, FormatExpectedEnvList[testEnvs]())
}

func TestFormatEnvList_Empty(t *testing.T) {
	assert.Empty(t, FormatEnvList(nil))
}
