/*
Package odpi implements the driver boundary over the ODPI-C shared library,
loaded at runtime with purego so no C toolchain is needed to build.

The library is resolved from ODPIC_LIB_PATH when set, otherwise from the
platform's usual shared-library names. Struct mirrors in this package follow
the ODPI-C 4.1 ABI; requesting that interface version at context creation is
what makes relying on the layout safe.
*/
package odpi
