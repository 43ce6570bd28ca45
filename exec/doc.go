// Package exec runs the external commands a new project needs: git and the
// package manager.
//
// An Executor streams output to its writers, or hides it behind a spinner:
//
//	executor := exec.NewExecutor(&exec.Options{Dir: projectDir})
//	err := executor.RunInvocation(ctx, exec.Invocation{
//	    Name:    "npm",
//	    Args:    []string{"install", "--loglevel", "error"},
//	    Env:     []string{"npm_config_registry=https://registry.npmjs.org"},
//	    Spinner: "Installing dependencies",
//	})
//
// Environment given to an Executor or an Invocation is added to the child
// process only. The calling process environment is never modified.
//
// Code that only needs to run commands should accept a Runner so tests can
// substitute a recording fake.
package exec
