package assets

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/MKhiriev/go-boot-supervisor/internal/logger"
)

// Command runs an external asset collection command, for example a web
// framework's collect-static management command. Its output is forwarded to
// the logger line by line. A non-zero exit status is an error.
type Command struct {
	name   string
	args   []string
	logger *logger.Logger
}

// NewCommand splits command on whitespace into a program and its arguments.
// No shell is involved.
func NewCommand(command string, log *logger.Logger) (*Command, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, ErrCommandEmpty
	}
	return &Command{name: fields[0], args: fields[1:], logger: log}, nil
}

func (c *Command) String() string {
	return strings.Join(append([]string{c.name}, c.args...), " ")
}

func (c *Command) Prepare(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, c.name, c.args...)
	cmd.Env = os.Environ()

	stdout := &lineLogger{logger: c.logger, stream: "stdout"}
	stderr := &lineLogger{logger: c.logger, stream: "stderr"}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	c.logger.Info().Str("command", c.String()).Msg("running asset command")
	err := cmd.Run()
	stdout.flush()
	stderr.flush()
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCommandFailed, c.String(), err)
	}

	c.logger.Info().Str("command", c.String()).Msg("asset command finished")
	return nil
}

// lineLogger is an io.Writer that logs every complete line written to it.
type lineLogger struct {
	logger *logger.Logger
	stream string

	mu  sync.Mutex
	buf bytes.Buffer
}

func (l *lineLogger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.buf.Write(p)
	for {
		i := bytes.IndexByte(l.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := string(bytes.TrimRight(l.buf.Next(i+1), "\r\n"))
		l.emit(line)
	}
	return len(p), nil
}

func (l *lineLogger) flush() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.buf.Len() > 0 {
		l.emit(l.buf.String())
		l.buf.Reset()
	}
}

func (l *lineLogger) emit(line string) {
	if line == "" {
		return
	}
	l.logger.Info().Str("stream", l.stream).Msg(line)
}
