package errors

import (
	goerrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := Driver("scan", goerrors.New("target closed"))
	assert.Contains(t, err.Error(), "scan")
	assert.Contains(t, err.Error(), "driver")
	assert.Contains(t, err.Error(), "target closed")

	coll := Collision("capture", "/tmp/out/a.png")
	assert.Contains(t, coll.Error(), "/tmp/out/a.png")
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"driver", Driver("scan", nil), KindDriver},
		{"detached", Detached("capture", nil), KindElementDetached},
		{"collision", Collision("capture", "x.png"), KindWriteCollision},
		{"timeout", Timeout("advance", nil), KindTimeout},
		{"config", Config("bad max items", nil), KindConfig},
		{"wrapped", fmt.Errorf("round 3: %w", Detached("capture", nil)), KindElementDetached},
		{"plain", goerrors.New("plain"), KindUnknown},
		{"nil", nil, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestFatalVsRecoverable(t *testing.T) {
	assert.True(t, IsFatal(Driver("scan", nil)))
	assert.True(t, IsFatal(Config("invalid", nil)))
	assert.False(t, IsFatal(Detached("capture", nil)))

	assert.True(t, IsRecoverable(Detached("capture", nil)))
	assert.True(t, IsRecoverable(Collision("capture", "x.png")))
	assert.True(t, IsRecoverable(Timeout("capture", nil)))
	assert.False(t, IsRecoverable(Driver("scan", nil)))
	assert.False(t, IsRecoverable(goerrors.New("plain")))
}

func TestUnwrap(t *testing.T) {
	cause := goerrors.New("deadline")
	err := Timeout("capture", cause)
	assert.True(t, goerrors.Is(err, cause))
	assert.True(t, IsDetached(Detached("capture", nil)))
	assert.False(t, IsDetached(err))
}
