package interfaces

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultCodeStrings(t *testing.T) {
	tests := []struct {
		code    ResultCode
		name    string
		message string
	}{
		{ResultOK, "OK", "Okay"},
		{ResultNoFS, "NOFS", "Cannot link to FSUIPC or WideClient"},
		{ResultNotOpen, "NOTOPEN", "Call cannot execute, link not Open"},
		{ResultSize, "SIZE", "Read or Write request cannot be added, memory for Process is full"},
		{ResultCode(99), "RESULT(99)", "Unknown result 99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.code.String())
			assert.Equal(t, tt.message, tt.code.Message())
			assert.Equal(t, "fsuipc: "+tt.message, tt.code.Error())
		})
	}
}

func TestResultOf(t *testing.T) {
	assert.Equal(t, ResultOK, ResultOf(nil))
	assert.Equal(t, ResultTimeout, ResultOf(ResultTimeout))
	assert.Equal(t, ResultNotOpen, ResultOf(fmt.Errorf("process: %w", ResultNotOpen)))
	assert.Equal(t, ResultData, ResultOf(errors.New("boom")))
}
