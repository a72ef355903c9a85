/*
Package errors implements custom error interfaces for the custody engine.

The idea is to reuse as many errors from this package as possible and define custom package
errors when absolutely necessary. It is best to define a new error here if you feel it's going to
be somewhat package-agnostic.

vault is a good package to take a look at in terms of registering module specific errors.

If you want to register a custom error - use Register(code, description).
For reusing errors - use Wrap and Wrapf with one of the registered root errors.

There is also support for stacktraces. Please ensure you create the custom error using
errors.Wrap(ErrXyz, "...") at the point of creation to ensure we attach
a stacktrace. If you wrap multiple times, we only record the first wrap with the stacktrace.
*/
package errors
