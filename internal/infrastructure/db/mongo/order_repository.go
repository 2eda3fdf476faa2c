package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storefront/storefront-api/internal/core/domain"
)

const collectionOrders = "orders"

// OrderRepository implements ports.OrderRepository using MongoDB.
type OrderRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection(collectionOrders), now: time.Now}
}

type mongoOrderItem struct {
	ProductID primitive.ObjectID `bson:"product_id"`
	Quantity  int                `bson:"quantity"`
}

type mongoShippingAddress struct {
	Address    string `bson:"address"`
	City       string `bson:"city"`
	PostalCode string `bson:"postal_code"`
	Country    string `bson:"country"`
}

type mongoOrder struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty"`
	UserID          primitive.ObjectID   `bson:"user_id"`
	Items           []mongoOrderItem     `bson:"items"`
	TotalAmount     float64              `bson:"total_amount"`
	Status          string               `bson:"status"`
	ShippingAddress mongoShippingAddress `bson:"shipping_address"`
	PaymentMethod   string               `bson:"payment_method"`
	PaidAt          *time.Time           `bson:"paid_at,omitempty"`
	CreatedAt       time.Time            `bson:"created_at"`
	UpdatedAt       time.Time            `bson:"updated_at"`
}

func (mo *mongoOrder) toDomain() *domain.Order {
	items := make([]domain.OrderItem, len(mo.Items))
	for i, it := range mo.Items {
		items[i] = domain.OrderItem{ProductID: it.ProductID.Hex(), Quantity: it.Quantity}
	}
	o := &domain.Order{
		ID:          mo.ID.Hex(),
		UserID:      mo.UserID.Hex(),
		Items:       items,
		TotalAmount: mo.TotalAmount,
		Status:      domain.OrderStatus(mo.Status),
		ShippingAddress: domain.ShippingAddress{
			Address:    mo.ShippingAddress.Address,
			City:       mo.ShippingAddress.City,
			PostalCode: mo.ShippingAddress.PostalCode,
			Country:    mo.ShippingAddress.Country,
		},
		PaymentMethod: mo.PaymentMethod,
		CreatedAt:     mo.CreatedAt.UTC(),
		UpdatedAt:     mo.UpdatedAt.UTC(),
	}
	if mo.PaidAt != nil {
		paid := mo.PaidAt.UTC()
		o.PaidAt = &paid
	}
	return o
}

// Create inserts a new order. Product and user references must be valid ObjectIDs.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	userID, err := primitive.ObjectIDFromHex(order.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", domain.ErrInvalidInput)
	}

	items := make([]mongoOrderItem, len(order.Items))
	for i, it := range order.Items {
		pid, err := primitive.ObjectIDFromHex(it.ProductID)
		if err != nil {
			return nil, fmt.Errorf("%w: items[%d].product_id is not a valid id", domain.ErrInvalidInput, i)
		}
		items[i] = mongoOrderItem{ProductID: pid, Quantity: it.Quantity}
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := r.now().UTC().Truncate(time.Millisecond)
	doc := mongoOrder{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		Items:       items,
		TotalAmount: order.TotalAmount,
		Status:      string(order.Status),
		ShippingAddress: mongoShippingAddress{
			Address:    order.ShippingAddress.Address,
			City:       order.ShippingAddress.City,
			PostalCode: order.ShippingAddress.PostalCode,
			Country:    order.ShippingAddress.Country,
		},
		PaymentMethod: order.PaymentMethod,
		PaidAt:        order.PaidAt,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	byUser, err := r.ListByUsers(ctx, []string{userID})
	if err != nil {
		return nil, err
	}
	return byUser[userID], nil
}

// ListByUsers fetches the orders of several users with a single $in query.
func (r *OrderRepository) ListByUsers(ctx context.Context, userIDs []string) (map[string][]*domain.Order, error) {
	oids := make([]primitive.ObjectID, 0, len(userIDs))
	for _, id := range userIDs {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	out := make(map[string][]*domain.Order, len(userIDs))
	if len(oids) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx,
		bson.M{"user_id": bson.M{"$in": oids}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoOrder
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	for i := range docs {
		o := docs[i].toDomain()
		out[o.UserID] = append(out[o.UserID], o)
	}
	return out, nil
}

func (r *OrderRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"user_id": oid})
	if err != nil {
		return 0, fmt.Errorf("delete orders: %w", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the user_id index used by the admin listing and the
// deletion cascade.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}
