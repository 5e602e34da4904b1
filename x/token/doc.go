/*
Package token keeps fungible asset holdings.

A holding is identified by its owner address and the asset identifier.
Every owner has at most one holding per asset. Holdings are created on
first credit or explicitly with Open, and can be removed with Close once
their balance is zero.
*/
package token
