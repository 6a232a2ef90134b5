/*
Package mock provides a scriptable in-memory implementation of driver.Driver
for tests.

The mock keeps a real reference count per handle, so tests can assert that
clone/close sequences in the binding layer map to the exact add-ref/release
calls the native library would see. Result sets are scripted per statement
text, failures can be injected per native call, and bind traffic is recorded
for inspection.
*/
package mock
