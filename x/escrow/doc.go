/*
Package escrow implements a two party token swap.

The initiator locks a token balance by handing the owner authority of a
token account over to a custody address. The custody address is derived
from the initiator key and the program id, nobody holds a private key for
it. Only this program can sign for it.

A counterparty completes the trade with Exchange: it pays the expected
amount to the initiator and receives the whole locked balance in the same
transaction. Until that happens the initiator can Cancel and take the
locked balance back.

Both Exchange and Cancel close the locked token account and the Record,
returning their deposits to the initiator.
*/
package escrow
