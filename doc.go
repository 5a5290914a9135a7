/*
Package escrowswap defines the common interfaces shared by the ledger runtime
and the programs it executes, together with the simpler components that would
not justify an interface (keys, accounts, rent).

A transaction is an ordered list of instructions. Each instruction names the
program to run and the accounts it may touch, in a fixed positional order.
The runtime loads those accounts, hands them to the program and persists the
result only if every instruction of the transaction succeeded.

We pass context through context.Context between the runtime, decorators and
programs. There should exist two functions for every XYZ of type T that we
want to support in Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)

WithXYZ may panic if the value was previously set to avoid lower-level
modules overwriting the value (eg. chain id).
*/
package escrowswap
