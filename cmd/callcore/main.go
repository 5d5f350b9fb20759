// Command callcore is a small demonstration CLI over a Runtime: it wires up
// a handful of primitives and a setjmp callback, dispatches to them per the flags
// given, and prints the result or the caught exception. It exists to give
// the call core an end-to-end, runnable surface the way the teacher's
// examples/basic demonstrates a Runtime in isolation from any larger host.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/mudlle-go/callcore"
	"github.com/mudlle-go/callcore/config"
	"github.com/mudlle-go/callcore/value"
)

func main() {
	app := &cli.App{
		Name:  "callcore",
		Usage: "exercise the call dispatcher and protected-call facility",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "path to a YAML RuntimeConfig file"},
			&cli.IntFlag{Name: "default-seclevel", Value: 0, Usage: "privilege level of this invocation"},
			&cli.BoolFlag{Name: "verbose", Usage: "emit structured logs to stderr"},
		},
		Commands: []*cli.Command{
			callCommand(),
			secureCommand(),
			jumpCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "callcore:", err)
		os.Exit(1)
	}
}

func newRuntime(c *cli.Context) (*callcore.Runtime, error) {
	if path := c.String("config"); path != "" {
		f, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		var logger *slog.Logger
		if c.Bool("verbose") {
			logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
		}
		cfg, err := f.ToRuntimeConfig(logger)
		if err != nil {
			return nil, err
		}
		return callcore.NewRuntime(cfg), nil
	}

	cfg := callcore.NewRuntimeConfig().WithDefaultSeclevel(c.Int("default-seclevel"))
	if c.Bool("verbose") {
		cfg = cfg.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	}
	return callcore.NewRuntime(cfg), nil
}

func addPrimitive() *value.Primitive {
	return value.NewPrimitive("add", &value.OperationDescriptor{
		Arity: 2,
		Entry: func(args []value.Value) (value.Value, error) {
			return args[0].(int) + args[1].(int), nil
		},
	}, false)
}

func callCommand() *cli.Command {
	return &cli.Command{
		Name:  "call",
		Usage: "dispatch to a built-in two-argument add primitive",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "a", Value: 1},
			&cli.IntFlag{Name: "b", Value: 2},
		},
		Action: func(c *cli.Context) error {
			rt, err := newRuntime(c)
			if err != nil {
				return err
			}
			result, err := rt.Call2(addPrimitive(), c.Int("a"), c.Int("b"))
			if err != nil {
				return err
			}
			fmt.Println(result)
			return nil
		},
	}
}

func secureCommand() *cli.Command {
	return &cli.Command{
		Name:  "secure",
		Usage: "dispatch to a secure primitive requiring seclevel 2",
		Action: func(c *cli.Context) error {
			rt, err := newRuntime(c)
			if err != nil {
				return err
			}
			secure := value.NewPrimitive("privileged", &value.OperationDescriptor{
				Arity: 0, SecLevel: 2,
				Entry: func(args []value.Value) (value.Value, error) { return "granted", nil },
			}, true)

			result, ok := rt.ProtectedCall0(secure)
			if !ok {
				pending := rt.PendingException()
				return fmt.Errorf("%s: %s", pending.Kind, pending.Msg)
			}
			fmt.Println(result)
			return nil
		},
	}
}

func jumpCommand() *cli.Command {
	return &cli.Command{
		Name:  "jump",
		Usage: "demonstrate a setjmp/longjmp round trip",
		Action: func(c *cli.Context) error {
			rt, err := newRuntime(c)
			if err != nil {
				return err
			}
			result := rt.Setjmp(func(buf *callcore.Buffer) value.Value {
				rt.Longjmp(buf, "jumped")
				return "unreachable"
			})
			fmt.Println(result)
			return nil
		},
	}
}
