/*
Package gconf provides a toolset for managing an extension configuration.

Each extension keeps a single configuration object in the database, under
the "_c:<extension>" key. The configuration is loaded from the genesis
"conf" section, and later updated by its owner using a message with a
"Patch" field holding a configuration of the same type. Zero value fields
of the patch do not modify the stored configuration.
*/
package gconf
