package system

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/google/shlex"
	"github.com/sirupsen/logrus"
	"github.com/targodan/go-errors"
)

// DefaultCommandTimeout is the time a CommandSource waits for its command.
const DefaultCommandTimeout = 3 * time.Second

// CommandSource samples the load by executing a command, e.g.
// "ssh build-host cat /proc/loadavg". The first whitespace separated field
// of the command's output is used as the load.
type CommandSource struct {
	name    string
	args    []string
	timeout time.Duration
}

// NewCommandSource parses command with shell-like quoting rules and creates
// a CommandSource for it. The command is not executed yet.
func NewCommandSource(command string, timeout time.Duration) (*CommandSource, error) {
	parts, err := shlex.Split(command)
	if err != nil {
		return nil, errors.Newf("could not parse command \"%s\", reason: %w", command, err)
	}
	if len(parts) == 0 {
		return nil, errors.New("command must not be empty")
	}
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	return &CommandSource{
		name:    parts[0],
		args:    parts[1:],
		timeout: timeout,
	}, nil
}

// String returns the command line as it will be executed.
func (s *CommandSource) String() string {
	return strings.Join(append([]string{s.name}, s.args...), " ")
}

// Sample executes the command and parses its output. Failures are logged and
// reported as an unavailable load.
func (s *CommandSource) Sample() (load float64, ok bool) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, s.name, s.args...).Output()
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"command":       s.String(),
			logrus.ErrorKey: err,
		}).Error("Load command failed.")
		return 0, false
	}

	loads, err := parseLoadFields(string(out), 1)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"command":       s.String(),
			"output":        string(out),
			logrus.ErrorKey: err,
		}).Error("Could not parse output of load command.")
		return 0, false
	}
	return loads[0], true
}
