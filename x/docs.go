/*
Package x contains some standard extensions

Extensions implement common functionality (Handler, Decorator, etc.)
for use in weave apps. The helpers shared by all of them, such as the
Authenticator abstraction, live in this package.
*/
package x
