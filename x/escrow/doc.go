/*
Package escrow implements a trustless two-party asset swap.

A maker opens an escrow by depositing an amount of asset A into a custody
vault and declaring the amount of asset B expected in return. Any taker
can fulfill the escrow: the taker pays the maker, receives the vault
content, and both the vault and the escrow record are removed. The maker
can cancel an open escrow at any time to get the deposit back.

The escrow record and its vault live under an address derived from the
program identity, the maker and a maker chosen seed. No private key exists
for a derived address, so only this extension can move the vault funds,
always in the same transaction that removes the record.
*/
package escrow
