//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Downloads the modules and builds the walker binary into bin/.
func (Build) Binary() error {
	if _, err := executeCmd("go", withArgs("mod", "download"), withStream()); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/walker", "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Checks the shipped shaders compile, when glslangValidator is installed.
func (Build) Shaders() error {
	for _, stage := range []string{"assets/shaders/simple.vert", "assets/shaders/simple.frag"} {
		if _, err := executeCmd("glslangValidator", withArgs(stage), withStream()); err != nil {
			return err
		}
	}
	return nil
}
