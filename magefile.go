//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default target to run when none is specified
var Default = Build

// Build compiles the railsim binary.
func Build() error {
	fmt.Println("building railsim...")
	return sh.RunV("go", "build", "-o", "railsim", ".")
}

// Install builds and installs the railsim binary into GOPATH/bin.
func Install() error {
	fmt.Println("installing railsim...")
	return sh.RunV("go", "install", ".")
}

// Test runs the test suite.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// TestVerbose runs the test suite with verbose output.
func TestVerbose() error {
	return sh.RunV("go", "test", "-v", "./...")
}

// Fmt formats all Go source files.
func Fmt() error {
	return sh.RunV("go", "fmt", "./...")
}

// Vet runs go vet across the module.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs formatting, vetting, and the test suite.
func Check() {
	mg.Deps(Fmt, Vet, Test)
}

// Run builds and starts the interactive shell.
func Run() error {
	mg.Deps(Build)
	return sh.RunV("./railsim", "shell")
}

// Clean removes build artifacts.
func Clean() error {
	return sh.Rm("railsim")
}
