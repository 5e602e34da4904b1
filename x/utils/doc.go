/*
Package utils contains decorators shared by every handler of the
application: transaction isolation, panic recovery, logging, metrics and
message path tagging.
*/
package utils
