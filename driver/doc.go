/*
Package driver defines the boundary between the binding layer and the native
Oracle client library.

The native library issues opaque handles for every resource it manages
(context, pool, connection, statement, variable, row id) and reports failures
through a C-style status code plus a structured error record. This package
captures that contract as the Driver interface together with the handle
tokens, type tags, and value records the calls exchange.

Implementations: driver/odpi binds the real ODPI-C shared library, and
driver/mock provides a scriptable in-memory double for tests.
*/
package driver
