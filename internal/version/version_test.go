package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// stamp подменяет значения, которые сборка проставляет через -ldflags -X.
func stamp(t *testing.T, v, c, d string) {
	t.Helper()
	prevVersion, prevCommit, prevDate := version, commit, date
	version, commit, date = v, c, d
	t.Cleanup(func() {
		version, commit, date = prevVersion, prevCommit, prevDate
	})
}

func TestSystemID(t *testing.T) {
	// Номер системы печатается на экранах профиля и «System info».
	assert.Equal(t, 2025, SystemID)
}

func TestInfo_LocalBuild(t *testing.T) {
	v, c, d := Info()
	assert.Equal(t, "dev", v)
	assert.Equal(t, "unknown", c)
	assert.Equal(t, "unknown", d)
}

func TestInfo_Stamped(t *testing.T) {
	stamp(t, "1.4.0", "9f2c1ab", "2025-06-01")

	v, c, d := Info()
	assert.Equal(t, "1.4.0", v)
	assert.Equal(t, "9f2c1ab", c)
	assert.Equal(t, "2025-06-01", d)

	assert.Equal(t, v, GetVersion())
	assert.Equal(t, c, GetCommit())
	assert.Equal(t, d, GetDate())
}

func TestString(t *testing.T) {
	tests := []struct {
		name          string
		v, c, d, want string
	}{
		{
			name: "local build",
			v:    "dev", c: "unknown", d: "unknown",
			want: "system=2025 version=dev commit=unknown date=unknown",
		},
		{
			name: "release build",
			v:    "1.4.0", c: "9f2c1ab", d: "2025-06-01",
			want: "system=2025 version=1.4.0 commit=9f2c1ab date=2025-06-01",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stamp(t, tt.v, tt.c, tt.d)
			assert.Equal(t, tt.want, String())
		})
	}
}
