/*
Package shell implements the interactive command layer on top of the ora
binding layer: meta-command dispatch, statement paging, and result rendering.

Line editing, history persistence, and flag parsing live in the binary; the
shell itself only consumes complete input lines, which keeps it testable
against a scripted driver.
*/
package shell
