/*
Package sigs provides basic authentication middleware to verify the
ed25519 signatures on the transaction, and maintain sequence numbers
for replay protection.

A signer is identified by the condition sigs/ed25519/<public key> and the
address of that condition.
*/
package sigs
