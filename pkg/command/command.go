package command

import (
	"bytes"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/pkg/errors"

	"github.com/datapub/datapub/pkg/log"
)

// Command defines the information required for executing a call to any executable
type Command struct {
	ErrorCategoryMapping map[string][]string
	dir                  string
	stdin                io.Reader
	stdout               io.Writer
	stderr               io.Writer
	env                  []string
	exitCode             int
}

type runner interface {
	SetDir(dir string)
	SetEnv(env []string)
	AppendEnv(env []string)
	Stdin(in io.Reader)
	Stdout(out io.Writer)
	Stderr(err io.Writer)
	GetStdout() io.Writer
	GetStderr() io.Writer
}

// ExecRunner mock for intercepting calls to executables
type ExecRunner interface {
	runner
	RunExecutable(executable string, params ...string) error
}

// SetDir sets the working directory for the execution
func (c *Command) SetDir(dir string) {
	c.dir = dir
}

// SetEnv sets explicit environment variables to be used for execution
func (c *Command) SetEnv(env []string) {
	c.env = env
}

// AppendEnv appends environment variables to be used for execution
func (c *Command) AppendEnv(env []string) {
	c.env = append(c.env, env...)
}

// Stdin ..
func (c *Command) Stdin(stdin io.Reader) {
	c.stdin = stdin
}

// Stdout ..
func (c *Command) Stdout(stdout io.Writer) {
	c.stdout = stdout
}

// Stderr ..
func (c *Command) Stderr(stderr io.Writer) {
	c.stderr = stderr
}

// GetStdout returns the writer for stdout
func (c *Command) GetStdout() io.Writer {
	return c.stdout
}

// GetStderr returns the writer for stderr
func (c *Command) GetStderr() io.Writer {
	return c.stderr
}

// GetExitCode allows to retrieve the exit code of a command execution
func (c *Command) GetExitCode() int {
	return c.exitCode
}

// ExecCommand defines how to execute os commands
var ExecCommand = exec.Command

// RunExecutable runs the specified executable with parameters
// !! While the cmd.Env is applied during command execution, it is NOT involved when the actual executable is resolved.
//
//	Thus the executable needs to be on the PATH of the current process and it is not sufficient to alter the PATH on cmd.Env.
func (c *Command) RunExecutable(executable string, params ...string) error {
	c.prepareOut()

	cmd := ExecCommand(executable, params...)

	if len(c.dir) > 0 {
		cmd.Dir = c.dir
	}

	log.Entry().Infof("running command: %v %v", executable, strings.Join(params, " "))

	appendEnvironment(cmd, c.env)

	if c.stdin != nil {
		cmd.Stdin = c.stdin
	}

	if err := c.runCmd(cmd); err != nil {
		return errors.Wrapf(err, "running command '%v' failed", executable)
	}
	return nil
}

func appendEnvironment(cmd *exec.Cmd, env []string) {
	if len(env) > 0 {
		// When cmd.Env is nil the environment variables from the current
		// process are used by the forked process. Our environment variables
		// should not replace the existing environment, they are appended.
		// In case the same variable appears in both, the last one wins,
		// cf. https://golang.org/pkg/os/exec/#Command
		if len(cmd.Env) == 0 {
			cmd.Env = os.Environ()
		}
		cmd.Env = append(cmd.Env, env...)
	}
}

func (c *Command) runCmd(cmd *exec.Cmd) error {
	stdout := c.stdout
	stderr := c.stderr

	if c.ErrorCategoryMapping != nil {
		scanOut := &categoryScanner{mapping: c.ErrorCategoryMapping}
		stdout = io.MultiWriter(stdout, scanOut)
		stderr = io.MultiWriter(stderr, scanOut)
		defer scanOut.Flush()
	}

	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if err != nil {
		// fallback to ensure a non 0 exit code in case of an error
		c.exitCode = 1
		if exitErr, ok := err.(*exec.ExitError); ok {
			if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
				c.exitCode = status.ExitStatus()
			}
		}
		return errors.Wrap(err, "cmd.Run() failed")
	}
	c.exitCode = 0
	return nil
}

func (c *Command) prepareOut() {
	if c.stdout == nil {
		c.stdout = os.Stdout
	}
	if c.stderr == nil {
		c.stderr = os.Stderr
	}
}

// categoryScanner inspects tool output line by line and derives an error
// category from known error patterns.
type categoryScanner struct {
	mapping map[string][]string
	buffer  bytes.Buffer
}

func (s *categoryScanner) Write(p []byte) (int, error) {
	s.buffer.Write(p)
	for {
		line, err := s.buffer.ReadString('\n')
		if err != nil {
			// keep the incomplete line for the next write
			s.buffer.Reset()
			s.buffer.WriteString(line)
			break
		}
		s.parseConsoleErrors(strings.TrimSuffix(line, "\n"))
	}
	return len(p), nil
}

// Flush categorizes a trailing line without final linebreak.
func (s *categoryScanner) Flush() {
	if s.buffer.Len() > 0 {
		s.parseConsoleErrors(s.buffer.String())
		s.buffer.Reset()
	}
}

func (s *categoryScanner) parseConsoleErrors(logLine string) {
	for category, categoryErrors := range s.mapping {
		for _, errorPart := range categoryErrors {
			if matchPattern(logLine, errorPart) {
				log.SetErrorCategory(log.ErrorCategoryByString(category))
				return
			}
		}
	}
}

func matchPattern(text, pattern string) bool {
	if len(pattern) == 0 && len(text) != 0 {
		return false
	}
	parts := strings.Split(pattern, "*")
	for _, part := range parts {
		if !strings.Contains(text, part) {
			return false
		}
	}
	return true
}
