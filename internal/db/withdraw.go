package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/refi-protocol/withdraw-api-service/internal/db/model"
	"github.com/refi-protocol/withdraw-api-service/internal/types"
	"github.com/refi-protocol/withdraw-api-service/internal/utils"
)

func (db *Database) SaveWithdrawRequest(ctx context.Context, document *model.WithdrawRequestDocument) error {
	client := db.Client.Database(db.DbName).Collection(model.WithdrawRequestCollection)
	_, err := client.InsertOne(ctx, document)
	if err != nil {
		var writeErr mongo.WriteException
		if errors.As(err, &writeErr) {
			for _, e := range writeErr.WriteErrors {
				if mongo.IsDuplicateKeyError(e) {
					return &DuplicateKeyError{
						Key:     document.Id,
						Message: "Withdraw request already exists",
					}
				}
			}
		}
		return err
	}
	return nil
}

func (db *Database) FindWithdrawRequestById(ctx context.Context, id string) (*model.WithdrawRequestDocument, error) {
	client := db.Client.Database(db.DbName).Collection(model.WithdrawRequestCollection)
	filter := bson.M{"_id": id}
	var request model.WithdrawRequestDocument
	err := client.FindOne(ctx, filter).Decode(&request)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     id,
				Message: "Withdraw request not found",
			}
		}
		return nil, err
	}
	return &request, nil
}

func (db *Database) FindWithdrawRequestsByStatuses(
	ctx context.Context, statuses []types.WithdrawStatus,
) ([]model.WithdrawRequestDocument, error) {
	client := db.Client.Database(db.DbName).Collection(model.WithdrawRequestCollection)
	filter := bson.M{"status": bson.M{"$in": statuses}}

	cursor, err := client.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requests []model.WithdrawRequestDocument
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, err
	}

	return requests, nil
}

// CountActiveWithdrawRequests counts non-terminal requests for the given
// wallet and amount. Creation uses it to enforce at most one in-flight
// request per (wallet, amount) pair, which keeps the reconciliation lookup
// unambiguous.
func (db *Database) CountActiveWithdrawRequests(
	ctx context.Context, walletAddress string, tokenAmount uint64,
) (int64, error) {
	client := db.Client.Database(db.DbName).Collection(model.WithdrawRequestCollection)
	filter := activeRequestFilter(walletAddress, tokenAmount)
	return client.CountDocuments(ctx, filter)
}

// TransitionWithdrawRequestState moves the single non-terminal request
// matching (wallet, amount) into newStatus. It returns a NotFoundError if
// nothing matches and an AmbiguousMatchError if more than one request
// matches; in both cases no document is changed.
func (db *Database) TransitionWithdrawRequestState(
	ctx context.Context, walletAddress string, tokenAmount uint64,
	newStatus types.WithdrawStatus, chainStatus types.ChainStatus, txSignature string,
) error {
	client := db.Client.Database(db.DbName).Collection(model.WithdrawRequestCollection)
	filter := activeRequestFilter(walletAddress, tokenAmount)

	count, err := client.CountDocuments(ctx, filter)
	if err != nil {
		return err
	}
	lookupKey := fmt.Sprintf("%s/%d", utils.NormalizeWalletAddress(walletAddress), tokenAmount)
	if count == 0 {
		return &NotFoundError{
			Key:     lookupKey,
			Message: "Withdraw request not found or no longer in an eligible state",
		}
	}
	if count > 1 {
		return &AmbiguousMatchError{
			Key:     lookupKey,
			Message: "Multiple non-terminal withdraw requests match the wallet and amount",
		}
	}

	fields := bson.M{
		"status":     newStatus,
		"updated_at": time.Now().UTC(),
	}
	if chainStatus != "" {
		fields["chain_status"] = chainStatus
	}
	if txSignature != "" {
		fields["tx_signature"] = txSignature
	}
	if newStatus == types.Completed {
		fields["processed_at"] = time.Now().UTC()
	}

	_, err = client.UpdateOne(ctx, filter, bson.M{"$set": fields})
	return err
}

// MarkWithdrawRequestCompleted completes the request by id. The status
// filter keeps the call idempotent: a request already in a terminal state
// is left untouched and NotFoundError is returned.
func (db *Database) MarkWithdrawRequestCompleted(ctx context.Context, id string) error {
	client := db.Client.Database(db.DbName).Collection(model.WithdrawRequestCollection)
	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$in": utils.QualifiedStatesToComplete()},
	}
	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"status":       types.Completed,
		"processed_at": now,
		"updated_at":   now,
	}}

	result, err := client.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return &NotFoundError{
			Key:     id,
			Message: "Withdraw request not found or not in an eligible state to complete",
		}
	}
	return nil
}

// SettlementUpdate carries the priced outcome of a verified settlement
// transaction.
type SettlementUpdate struct {
	RequestedAmount string
	ExitFee         string
	ReceivedAmount  string
	Status          types.WithdrawStatus
	ChainStatus     types.ChainStatus
	TxSignature     string
	ProcessedAt     *time.Time
}

func (db *Database) UpdateWithdrawRequestSettlement(
	ctx context.Context, id string, update *SettlementUpdate,
) error {
	client := db.Client.Database(db.DbName).Collection(model.WithdrawRequestCollection)
	filter := bson.M{"_id": id}

	fields := bson.M{
		"requested_amount": update.RequestedAmount,
		"exit_fee":         update.ExitFee,
		"received_amount":  update.ReceivedAmount,
		"status":           update.Status,
		"chain_status":     update.ChainStatus,
		"tx_signature":     update.TxSignature,
		"updated_at":       time.Now().UTC(),
	}
	if update.ProcessedAt != nil {
		fields["processed_at"] = *update.ProcessedAt
	}

	result, err := client.UpdateOne(ctx, filter, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return &NotFoundError{
			Key:     id,
			Message: "Withdraw request not found",
		}
	}
	return nil
}

func activeRequestFilter(walletAddress string, tokenAmount uint64) bson.M {
	return bson.M{
		"wallet_address": utils.NormalizeWalletAddress(walletAddress),
		"token_amount":   tokenAmount,
		"status":         bson.M{"$in": utils.NonTerminalStates()},
	}
}
