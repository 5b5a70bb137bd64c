// Package cli provides the userctl command-line tool.
//
// It wires configuration, logging, the selected credential store and the
// user service, then runs exactly one action chosen by flags:
//   - -c: prompt for a username and password and store a new credential
//   - -l: print every stored username, one per line
//   - -t: prompt for a username and password and report whether they match
//
// When several action flags are given, create wins over list, and list over
// test. Run returns the process exit code.
package cli
