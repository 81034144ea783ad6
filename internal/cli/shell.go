package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"rgehrsitz/fuzzy/internal/fuzzy"
	"rgehrsitz/fuzzy/internal/runtime"
)

const finishToken = "x"

// NewShellCommand creates the interactive shell command.
func NewShellCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Build and run a fuzzy system interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return WrapExitError(ExitCommandError, "bad logging flags", err)
			}
			sh := NewShell(cmd.InOrStdin(), cmd.OutOrStdout(), systemOptions(rootOpts, logger)...)
			sh.logger = logger
			return sh.Run()
		},
	}
}

// Shell is the menu-driven front end. It only builds the model through the
// System add operations and prints what Run returns.
type Shell struct {
	in     *bufio.Scanner
	out    io.Writer
	opts   []runtime.Option
	logger zerolog.Logger
}

func NewShell(in io.Reader, out io.Writer, opts ...runtime.Option) *Shell {
	return &Shell{
		in:     bufio.NewScanner(in),
		out:    out,
		opts:   opts,
		logger: zerolog.Nop(),
	}
}

var errEndOfInput = errors.New("end of input")

// readLine prompts and returns the next trimmed line.
func (sh *Shell) readLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(sh.out, prompt)
	}
	if !sh.in.Scan() {
		if err := sh.in.Err(); err != nil {
			return "", err
		}
		return "", errEndOfInput
	}
	return strings.TrimSpace(sh.in.Text()), nil
}

// Run shows the main menu until the user quits or input ends.
func (sh *Shell) Run() error {
	fmt.Fprintln(sh.out, "Fuzzy Logic Toolbox")
	for {
		fmt.Fprintln(sh.out, "Main Menu:\n1- Create a new fuzzy system\n2- Quit")
		choice, err := sh.readLine("Enter your choice: ")
		if err != nil {
			return sh.finish(err)
		}

		switch choice {
		case "1":
			name, err := sh.readLine("Enter the system's name: ")
			if err != nil {
				return sh.finish(err)
			}
			description, err := sh.readLine("Enter a brief description: ")
			if err != nil {
				return sh.finish(err)
			}
			sys := runtime.New(name, description, sh.opts...)
			fmt.Fprintf(sh.out, "System '%s' created.\n", name)
			if err := sh.manage(sys); err != nil {
				return sh.finish(err)
			}
		case "2":
			fmt.Fprintln(sh.out, "Exiting...")
			return nil
		default:
			fmt.Fprintln(sh.out, "Invalid choice!")
		}
	}
}

func (sh *Shell) finish(err error) error {
	if errors.Is(err, errEndOfInput) {
		return nil
	}
	return err
}

func (sh *Shell) manage(sys *runtime.System) error {
	for {
		fmt.Fprintln(sh.out, "\nMain Menu:\n==========")
		fmt.Fprintln(sh.out, "1- Add variables.")
		fmt.Fprintln(sh.out, "2- Add fuzzy sets to an existing variable.")
		fmt.Fprintln(sh.out, "3- Add rules.")
		fmt.Fprintln(sh.out, "4- Run the simulation on crisp values.")
		fmt.Fprintln(sh.out, "5- Back to Main Menu")

		choice, err := sh.readLine("")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = sh.addVariables(sys)
		case "2":
			err = sh.addSets(sys)
		case "3":
			err = sh.addRules(sys)
		case "4":
			err = sh.simulate(sys)
		case "5":
			return nil
		default:
			fmt.Fprintln(sh.out, "Invalid choice!")
		}
		if err != nil {
			return err
		}
	}
}

// addVariables reads lines of the form "name IN|OUT [lower, upper]".
func (sh *Shell) addVariables(sys *runtime.System) error {
	fmt.Fprintln(sh.out, "Enter the variable's name, type (IN/OUT) and range ([lower, upper]): (Press x to finish)")
	for {
		line, err := sh.readLine("")
		if err != nil {
			return err
		}
		if strings.EqualFold(line, finishToken) {
			return nil
		}
		if err := addVariableLine(sys, line); err != nil {
			sh.logger.Debug().Err(err).Str("line", line).Msg("Variable rejected")
			fmt.Fprintf(sh.out, "Invalid format! Use: name IN/OUT [lower, upper] (%v)\n", err)
		}
	}
}

func addVariableLine(sys *runtime.System, line string) error {
	parts := strings.Fields(line)
	if len(parts) < 3 {
		return fmt.Errorf("expected 3 fields, got %d", len(parts))
	}
	role, err := fuzzy.ParseRole(parts[1])
	if err != nil {
		return err
	}
	bounds, err := parseFloats(strings.Split(strings.Trim(strings.Join(parts[2:], ""), "[]"), ","))
	if err != nil {
		return err
	}
	if len(bounds) != 2 {
		return fmt.Errorf("range needs 2 numbers, got %d", len(bounds))
	}
	return sys.AddVariable(parts[0], role, fuzzy.Domain{Lower: bounds[0], Upper: bounds[1]})
}

// addSets reads lines of the form "name TRI|TRAP p1 p2 p3 [p4]" for one variable.
func (sh *Shell) addSets(sys *runtime.System) error {
	name, err := sh.readLine("Enter the variable's name:\n")
	if err != nil {
		return err
	}
	if _, ok := sys.Variable(name); !ok {
		fmt.Fprintln(sh.out, "Variable not found!")
		return nil
	}

	fmt.Fprintln(sh.out, "Enter the fuzzy set name, type (TRI/TRAP) and values: (Press x to finish)")
	for {
		line, err := sh.readLine("")
		if err != nil {
			return err
		}
		if strings.EqualFold(line, finishToken) {
			return nil
		}
		if err := addSetLine(sys, name, line); err != nil {
			sh.logger.Debug().Err(err).Str("line", line).Msg("Fuzzy set rejected")
			fmt.Fprintf(sh.out, "Invalid format! Use: name TRI/TRAP param1 param2 param3 [param4] (%v)\n", err)
		}
	}
}

func addSetLine(sys *runtime.System, variable, line string) error {
	parts := strings.Fields(line)
	if len(parts) < 2 {
		return fmt.Errorf("expected a name and a shape")
	}
	shape, err := fuzzy.ParseShape(parts[1])
	if err != nil {
		return err
	}
	params, err := parseFloats(parts[2:])
	if err != nil {
		return err
	}
	return sys.AddSet(variable, parts[0], shape, params...)
}

func (sh *Shell) addRules(sys *runtime.System) error {
	fmt.Fprintln(sh.out, "Enter the rules in this format: (Press x to finish)")
	fmt.Fprintln(sh.out, "IN_variable set operator IN_variable set => OUT_variable set")
	for {
		line, err := sh.readLine("Enter rule (or 'x' to finish): ")
		if err != nil {
			return err
		}
		if strings.EqualFold(line, finishToken) {
			return nil
		}
		rule, err := sys.AddRule(line)
		if err != nil {
			fmt.Fprintf(sh.out, "Invalid rule format! Error: %v\n", err)
			continue
		}
		fmt.Fprintf(sh.out, "Rule added: %s\n", rule)
	}
}

func (sh *Shell) simulate(sys *runtime.System) error {
	inputs := make(map[string]float64)
	fmt.Fprintln(sh.out, "Enter crisp values for the input variables: (Press x to finish)")

	ins := sys.VariablesWithRole(fuzzy.RoleInput)
read:
	for _, v := range ins {
		for {
			line, err := sh.readLine(v.Name() + ": ")
			if err != nil {
				return err
			}
			if strings.EqualFold(line, finishToken) {
				break read
			}
			value, err := strconv.ParseFloat(line, 64)
			if err != nil {
				fmt.Fprintln(sh.out, "Invalid format! Enter a number.")
				continue
			}
			inputs[v.Name()] = value
			break
		}
	}
	if len(inputs) < len(ins) {
		fmt.Fprintln(sh.out, "Not all input values were provided.")
		return nil
	}

	fmt.Fprintln(sh.out, "Running the simulation...")
	res, err := sys.Run(inputs)
	if err != nil {
		fmt.Fprintf(sh.out, "Simulation failed: %v\n", err)
		return nil
	}
	writeResult(sh.out, sys, res, nil)
	return nil
}

func parseFloats(fields []string) ([]float64, error) {
	values := make([]float64, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", f)
		}
		values = append(values, v)
	}
	return values, nil
}
