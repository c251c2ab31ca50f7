package main

import "github.com/cristianoliveira/repokit/internal/command"

// builtins returns the commands compiled into the host, in help order.
func (h *host) builtins() []command.Descriptor {
	return []command.Descriptor{
		NewDocsCmd(h),
		NewBuildDistCmd(h),
		NewCommandsCmd(h),
		NewHistoryCmd(h),
		NewVersionCmd(h),
	}
}
