//go:build !windows

package main

func manageConsole(keep bool) {}
