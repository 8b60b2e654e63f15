package completion_helper

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli/v3"
)

func TestWriteFlags(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	flags := []cli.Flag{
		&cli.StringFlag{Name: "format", Aliases: []string{"f"}},
		&cli.BoolFlag{Name: "no-cache"},
	}

	// Act
	writeFlags(&buf, flags)

	// Assert
	assert.Equal(t, "--format\n-f\n--no-cache\n", buf.String())
}
