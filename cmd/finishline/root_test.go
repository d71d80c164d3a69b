package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootRegistersCommands(t *testing.T) {
	cmd := newRootCmd()

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate", "check-db", "token"}, names)
}

func TestTokenRequiresUser(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"token"})
	cmd.SilenceErrors = true

	assert.Error(t, cmd.Execute())
}
