package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntValue(t *testing.T) {
	var maxErrorLines int

	ivar := NewInt(&maxErrorLines, 10)

	assert.Equal(t, "10", ivar.String())
	assert.NoError(t, ivar.Validate())
	assert.False(t, ivar.IsEmpty())

	maxErrorLines = 0

	assert.Equal(t, "0", ivar.String())
	assert.NoError(t, ivar.Validate())
	assert.True(t, ivar.IsEmpty())

	assert.NoError(t, ivar.Set("25"))
	assert.Equal(t, 25, maxErrorLines)

	assert.Error(t, ivar.Set("ten"))
	assert.Equal(t, 25, maxErrorLines)

	assert.NoError(t, ivar.Set("-1"))
	assert.Error(t, ivar.Validate())
}

func TestInt64Negative(t *testing.T) {
	var ttl int64

	ivar := NewInt64(&ttl, 300)
	assert.NoError(t, ivar.Validate())

	ttl = -300
	assert.Error(t, ivar.Validate())
}

type buildData struct {
	logFile       string
	maxErrorLines int
}

func TestValuesPointToFields(t *testing.T) {
	data1 := buildData{}

	NewString(&data1.logFile, "build-log.txt")
	NewInt(&data1.maxErrorLines, 10)

	data2 := buildData{}

	logFile := NewString(&data2.logFile, "output.txt")
	maxErrorLines := NewInt(&data2.maxErrorLines, 20)

	assert.Equal(t, "output.txt", logFile.String())

	data2 = data1

	assert.Equal(t, "build-log.txt", logFile.String())
	assert.Equal(t, "10", maxErrorLines.String())

	var _ Value = logFile
	var _ Value = maxErrorLines
}
