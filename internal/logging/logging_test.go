package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestNew_ParsesLevel(t *testing.T) {
	require.Equal(t, logrus.DebugLevel, New("DEBUG").GetLevel())
	require.Equal(t, logrus.WarnLevel, New(" warn ").GetLevel())
	require.Equal(t, logrus.InfoLevel, New("bogus").GetLevel())
	require.Equal(t, logrus.InfoLevel, New("").GetLevel())
}

func TestComponent_AddsField(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("info", &buf)

	Component(l, "quota").Info("granted")

	require.Contains(t, buf.String(), "component=quota")
	require.Contains(t, buf.String(), "granted")
}

func TestComponent_NilLogger(t *testing.T) {
	e := Component(nil, "spot")
	require.NotNil(t, e)
	e.Info("dropped")
}
