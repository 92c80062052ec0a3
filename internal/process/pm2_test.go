package process

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeRunner records pm2 invocations and serves canned responses.
type fakeRunner struct {
	calls   []string
	pid     string
	pidErr  error
	failOn  string
	failErr error
}

func (f *fakeRunner) run(_ context.Context, name string, args ...string) ([]byte, error) {
	call := name + " " + strings.Join(args, " ")
	f.calls = append(f.calls, call)

	if f.failOn != "" && strings.Contains(call, f.failOn) {
		return []byte("pm2 error output"), f.failErr
	}
	if len(args) > 0 && args[0] == "pid" {
		return []byte(f.pid), f.pidErr
	}
	return nil, nil
}

func newPM2WithFake(f *fakeRunner) *PM2Controller {
	c := NewPM2Controller(zap.NewNop())
	c.run = f.run
	return c
}

func TestPM2_StartDeletesExistingEntryFirst(t *testing.T) {
	fake := &fakeRunner{}
	c := newPM2WithFake(fake)

	h, err := c.Start(context.Background(), Spec{
		Name:    "validator-1",
		Binary:  "modnet-node",
		Args:    []string{"--chain", "spec.json"},
		LogPath: "/var/log/validator-1.log",
	})
	require.NoError(t, err)
	assert.Equal(t, BackendPM2, h.Backend)

	require.Len(t, fake.calls, 2)
	assert.Equal(t, "pm2 delete validator-1", fake.calls[0])
	assert.Contains(t, fake.calls[1], "pm2 start modnet-node --name validator-1")
	assert.Contains(t, fake.calls[1], "-- --chain spec.json")
}

func TestPM2_StartDeleteFailureIsIgnored(t *testing.T) {
	// pm2 delete on an absent name exits non-zero; that must not block start.
	fake := &fakeRunner{failOn: "delete", failErr: errors.New("process not found")}
	c := newPM2WithFake(fake)

	_, err := c.Start(context.Background(), Spec{Name: "validator-1", Binary: "modnet-node"})
	require.NoError(t, err)
}

func TestPM2_StartFailure(t *testing.T) {
	fake := &fakeRunner{failOn: "start", failErr: errors.New("exit status 1")}
	c := newPM2WithFake(fake)

	_, err := c.Start(context.Background(), Spec{Name: "validator-1", Binary: "modnet-node"})
	require.Error(t, err)

	var procErr *Error
	require.ErrorAs(t, err, &procErr)
	assert.Contains(t, procErr.Error(), "pm2 error output")
}

func TestPM2_StopIsIdempotent(t *testing.T) {
	fake := &fakeRunner{failOn: "delete", failErr: errors.New("process not found")}
	c := newPM2WithFake(fake)

	h := &Handle{Name: "validator-1", Backend: BackendPM2}
	assert.NoError(t, c.Stop(context.Background(), h))
	assert.NoError(t, c.Stop(context.Background(), nil))
}

func TestPM2_IsAlive(t *testing.T) {
	h := &Handle{Name: "validator-1", Backend: BackendPM2}

	c := newPM2WithFake(&fakeRunner{pid: "12345\n"})
	assert.True(t, c.IsAlive(h))

	c = newPM2WithFake(&fakeRunner{pid: "0\n"})
	assert.False(t, c.IsAlive(h))

	c = newPM2WithFake(&fakeRunner{pid: "", pidErr: errors.New("daemon down")})
	assert.False(t, c.IsAlive(h))

	assert.False(t, c.IsAlive(nil))
}
