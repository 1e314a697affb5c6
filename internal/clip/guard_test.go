package clip

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDevice scripts per-call errors for Read and Write.
type fakeDevice struct {
	data      []byte
	readErrs  []error
	writeErrs []error
	reads     int
	writes    int
}

func (d *fakeDevice) Name() string { return "fake" }

func (d *fakeDevice) Read(Format) ([]byte, error) {
	d.reads++
	if len(d.readErrs) > 0 {
		err := d.readErrs[0]
		d.readErrs = d.readErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return d.data, nil
}

func (d *fakeDevice) Write(_ Format, data []byte) error {
	d.writes++
	if len(d.writeErrs) > 0 {
		err := d.writeErrs[0]
		d.writeErrs = d.writeErrs[1:]
		if err != nil {
			return err
		}
	}
	d.data = data
	return nil
}

func (d *fakeDevice) Watch() <-chan struct{} { return nil }
func (d *fakeDevice) Close()                 {}

func newTestGuard(dev Device) *Guard {
	g := NewGuard(dev)
	g.sleep = func() {} // no real delays in tests
	return g
}

func alwaysBusy(n int) []error {
	errs := make([]error, n)
	for i := range errs {
		errs[i] = ErrBusy
	}
	return errs
}

func TestGuard_Read_Success(t *testing.T) {
	dev := &fakeDevice{data: []byte("hello")}
	g := newTestGuard(dev)

	got := g.Read(FmtText)
	require.Equal(t, []byte("hello"), got)
	assert.Equal(t, 1, dev.reads)
}

func TestGuard_Read_RetriesThroughContention(t *testing.T) {
	dev := &fakeDevice{data: []byte("eventually"), readErrs: alwaysBusy(4)}
	g := newTestGuard(dev)

	got := g.Read(FmtText)
	require.Equal(t, []byte("eventually"), got)
	assert.Equal(t, 5, dev.reads, "4 busy attempts then 1 success")
}

func TestGuard_Read_ExhaustsAfterTenAttempts(t *testing.T) {
	dev := &fakeDevice{data: []byte("never"), readErrs: alwaysBusy(100)}
	g := newTestGuard(dev)

	got := g.Read(FmtText)
	assert.Nil(t, got, "exhausted retry must return the failure sentinel")
	assert.Equal(t, 10, dev.reads, "retry must stop at exactly 10 attempts")
}

func TestGuard_Read_UnexpectedErrorNotRetried(t *testing.T) {
	dev := &fakeDevice{readErrs: []error{errors.New("boom")}}
	g := newTestGuard(dev)

	got := g.Read(FmtText)
	assert.Nil(t, got)
	assert.Equal(t, 1, dev.reads, "non-busy faults abort immediately")
}

func TestGuard_Read_UnsupportedFormat(t *testing.T) {
	dev := &fakeDevice{readErrs: []error{ErrUnsupported}}
	g := newTestGuard(dev)

	assert.Nil(t, g.Read(FmtRTF))
	assert.Equal(t, 1, dev.reads)
}

func TestGuard_Write_RetriesThroughContention(t *testing.T) {
	dev := &fakeDevice{writeErrs: alwaysBusy(9)}
	g := newTestGuard(dev)

	ok := g.Write(FmtText, []byte("x"))
	require.True(t, ok)
	assert.Equal(t, 10, dev.writes)
	assert.Equal(t, []byte("x"), dev.data)
}

func TestGuard_Write_Exhausts(t *testing.T) {
	dev := &fakeDevice{writeErrs: alwaysBusy(100)}
	g := newTestGuard(dev)

	ok := g.Write(FmtText, []byte("x"))
	assert.False(t, ok)
	assert.Equal(t, 10, dev.writes)
}

func TestGuard_Write_UnexpectedErrorNotRetried(t *testing.T) {
	dev := &fakeDevice{writeErrs: []error{errors.New("no display")}}
	g := newTestGuard(dev)

	assert.False(t, g.Write(FmtText, []byte("x")))
	assert.Equal(t, 1, dev.writes)
}
