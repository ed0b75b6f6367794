//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Builds and runs the walker with assets/config.toml.
func (Run) Walker() error {
	mg.Deps(Build.Binary)
	fmt.Println("Run walker...")
	if _, err := executeCmd("bin/walker", withArgs("assets/config.toml"), withStream()); err != nil {
		return err
	}
	return nil
}

type Test mg.Namespace

// Runs every package test.
func (Test) All() error {
	if _, err := executeCmd("go", withArgs("test", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the tests that need no window or GL context.
func (Test) Headless() error {
	packages := []string{
		"./engine/core/...", "./engine/containers/...", "./engine/math/...",
		"./engine/scene/...", "./engine/path/...", "./engine/animation/...",
		"./engine/assets/...", "./engine/systems/...", "./engine/renderer",
		"./engine/renderer/components/...", "./engine/renderer/metadata/...", "./testbed/...",
	}
	if _, err := executeCmd("go", withArgs(append([]string{"test"}, packages...)...), withStream()); err != nil {
		return err
	}
	return nil
}
