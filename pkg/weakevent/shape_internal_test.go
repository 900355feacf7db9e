package weakevent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCompilerGenerated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want bool
	}{
		{"main.main.func1", true},
		{"github.com/acme/app.(*Server).Start.func2.3", true},
		{"github.com/acme/app.(*Server).OnEvent-fm", true},
		{"github.com/acme/app.init.func1", true},
		{"github.com/acme/app.(*Server).OnEvent", false},
		{"github.com/acme/app.handleEvent", false},
		{"github.com/acme/app.funcs", false},
		{"github.com/acme/app.(*funcTable).Run", false},
		{"reflect.makeFuncStub", true},
		{"github.com/acme/reflect.makeFuncStub", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, isCompilerGenerated(tt.name))
		})
	}
}

func TestHandlerName(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Handler{}.Name())
	assert.Empty(t, Func(42).Name())
	assert.Contains(t, Func(testStatic).Name(), "weakevent.testStatic")
	assert.True(t, isCompilerGenerated(Func(func(any, EventArgs) {}).Name()))
}

func testStatic(any, EventArgs) {}
