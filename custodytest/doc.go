/*
Package custodytest provides helpers for testing code that builds on the
custody packages.
*/
package custodytest
