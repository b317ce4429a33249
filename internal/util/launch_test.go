package util_test

import (
	"testing"

	"github.com/Relics97/ControllerEmulator/internal/util"
	"github.com/stretchr/testify/assert"
)

func TestWithDefaultCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "no args", args: nil, want: []string{"run"}},
		{name: "flags only", args: []string{"--log.level=debug"}, want: []string{"run", "--log.level=debug"}},
		{name: "command given", args: []string{"bindings", "--format=json"}, want: []string{"bindings", "--format=json"}},
		{name: "command after flag", args: []string{"--log.level=debug", "config", "init"}, want: []string{"--log.level=debug", "config", "init"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, util.WithDefaultCommand(tt.args, "run"))
		})
	}
}
