/*
Package sysvar implements the ledger parameters that live in state, in well
known accounts readable by every program.

Each sysvar is a borsh encoded value stored in the data of an account owned
by the sysvar owner id. Genesis writes them, the runtime and programs load
them by key.
*/
package sysvar
