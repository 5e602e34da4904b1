/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of object.
* It has a primary key, and may possess secondary indexes (1:1 or 1:N).
* Easy queries for one and iteration.

Secondary indexes are stored natively in the database, each indexed
value and referenced key composing a single database key, so that
listing all objects indexed under a value is a range scan.
*/
package orm
