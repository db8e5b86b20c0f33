package transfer

import (
	"regexp"
	"time"
)

var reTxHash = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// ValidTxHash reports whether s is a 0x-prefixed 32-byte hex hash.
func ValidTxHash(s string) bool { return reTxHash.MatchString(s) }

// Event is an NFT transfer observed on an external chain.
type Event struct {
	ID          uint64    `gorm:"primaryKey;column:id" json:"-"`
	Network     string    `gorm:"size:32" json:"network"`
	Contract    string    `gorm:"size:64;index:idx_nft_transfers_contract_token" json:"contract"`
	TxHash      string    `gorm:"size:66;uniqueIndex:ux_nft_transfers_tx_log" json:"tx_hash"`
	LogIndex    uint32    `gorm:"uniqueIndex:ux_nft_transfers_tx_log" json:"log_index"`
	BlockNumber uint64    `json:"block_number"`
	TokenID     string    `gorm:"size:78;index:idx_nft_transfers_contract_token" json:"token_id"`
	FromAddress string    `gorm:"size:64" json:"from"`
	ToAddress   string    `gorm:"size:64" json:"to"`
	ReceivedAt  time.Time `gorm:"autoCreateTime" json:"received_at"`
}

func (Event) TableName() string { return "nft_transfers" }
