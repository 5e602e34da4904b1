/*
Package weave defines the common interfaces used to weave together
the subpackages of the swap application, as well as implementations
of the simpler components (when interfaces would be too much overhead).

We pass context through context.Context between app, middleware, and
handlers. Extensions, such as sigs, may add their own keys to enrich
the context with specific data.

Addresses are 32 bytes. Addresses of signers are derived from their
permission conditions, while addresses owned by the application logic
itself are derived with FindProgramAddress so that no private key can
ever exist for them.
*/
package weave
