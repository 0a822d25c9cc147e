// Package testutil provides fixtures shared by the package tests: paired
// read files and a shell stand-in for the sga executable that honors the
// sub-command contract without doing any real work.
//
// The fake engine appends every invocation to calls.log beside itself and
// can be told to fail one stage through the environment:
//
//	SGA_FAIL_STAGE=index SGA_FAIL_STATUS=4 SGA_FAIL_MESSAGE="out of memory"
package testutil
