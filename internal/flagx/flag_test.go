package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	serverFlags := []string{"-a", "-d", "-k", "-f", "-n", "-m"}

	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "keeps own flags, drops the config flag",
			args:         []string{"-a", ":5000", "-c", "srv.json", "-m", "64"},
			allowedFlags: serverFlags,
			want:         []string{"-a", ":5000", "-m", "64"},
		},
		{
			name:         "equals form",
			args:         []string{"-d=postgres://banco@db/banco", "-c=srv.json"},
			allowedFlags: serverFlags,
			want:         []string{"-d=postgres://banco@db/banco"},
		},
		{
			name:         "mixed forms preserve order",
			args:         []string{"-a=:6000", "-n", "15", "-x", "1"},
			allowedFlags: serverFlags,
			want:         []string{"-a=:6000", "-n", "15"},
		},
		{
			name:         "flag at end without value",
			args:         []string{"-d", "memory", "-k"},
			allowedFlags: serverFlags,
			want:         []string{"-d", "memory", "-k"},
		},
		{
			name:         "next flag is not swallowed as a value",
			args:         []string{"-k", "-f", "/etc/banco/mac.key"},
			allowedFlags: serverFlags,
			want:         []string{"-k", "-f", "/etc/banco/mac.key"},
		},
		{
			name:         "equals value may start with a dash",
			args:         []string{"-a=-odd-but-kept"},
			allowedFlags: serverFlags,
			want:         []string{"-a=-odd-but-kept"},
		},
		{
			name:         "nothing allowed matches",
			args:         []string{"-c", "srv.json", "--verbose", "positional"},
			allowedFlags: serverFlags,
			want:         []string{},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: serverFlags,
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowedFlags)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"short flag", []string{"testbin", "-c", "srv.json"}, "srv.json"},
		{"long flag", []string{"testbin", "-config", "srv.json"}, "srv.json"},
		{"long flag equals", []string{"testbin", "-config=srv.json"}, "srv.json"},
		{"other flags ignored", []string{"testbin", "-a", ":5000", "-c", "srv.json", "-m", "8"}, "srv.json"},
		{"absent", []string{"testbin", "-a", ":5000"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			assert.Equal(t, tt.want, JsonConfigFlags())
		})
	}
}
