package models

// Mutation actions.
const (
	ActionUpsert = "upsert"
	ActionDelete = "delete"
)

// Tables a mutation can target.
const (
	TableWallets      = "wallets"
	TableTransactions = "transactions"
)

// Mutation is a single entry in the sync queue: a local write that has not
// yet been acknowledged by the remote. Payload holds the full entity as JSON
// for upserts, or {"id": ...} for deletes. Timestamp is an RFC3339Nano string
// and is the queue's ordering key.
type Mutation struct {
	ID        int64  `json:"id"`
	Action    string `json:"action"`
	Table     string `json:"table"`
	Payload   []byte `json:"payload"`
	Timestamp string `json:"timestamp"`
}

// DeleteRef is the payload shape of a delete mutation.
type DeleteRef struct {
	ID string `json:"id"`
}
