package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/framelight/studio-backend/internal/models"
	"github.com/framelight/studio-backend/pkg/payment"
	"gorm.io/gorm"
)

// In-memory fakes for the repository interfaces. The purchase fake guards
// its state with a mutex so the concurrency tests exercise the same
// "decrement only if remaining" semantics the SQL gives us.

type fakePhotoRepo struct {
	mu     sync.Mutex
	nextID uint
	photos map[uint]*models.Photo
}

func newFakePhotoRepo() *fakePhotoRepo {
	return &fakePhotoRepo{nextID: 1, photos: make(map[uint]*models.Photo)}
}

func (r *fakePhotoRepo) Create(photo *models.Photo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	photo.ID = r.nextID
	r.nextID++
	photo.CreatedAt = time.Now()
	clone := *photo
	r.photos[photo.ID] = &clone
	return nil
}

func (r *fakePhotoRepo) CreateBatch(photos []models.Photo) error {
	for i := range photos {
		if err := r.Create(&photos[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakePhotoRepo) GetByID(id uint) (*models.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	photo, ok := r.photos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *photo
	return &clone, nil
}

func (r *fakePhotoRepo) GetPublishedByUserID(userID uint) ([]models.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Photo
	for _, p := range r.photos {
		if p.UserID == userID && p.IsPublished {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePhotoRepo) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.photos, id)
	return nil
}

func (r *fakePhotoRepo) DeleteBulk(ids []uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for _, id := range ids {
		if _, ok := r.photos[id]; ok {
			delete(r.photos, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakePhotoRepo) MarkPurchased(ids []uint, purchasedAt, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if p, ok := r.photos[id]; ok {
			p.Status = models.PhotoStatusPurchased
			pa, ea := purchasedAt, expiresAt
			p.PurchasedAt = &pa
			p.ExpiresAt = &ea
		}
	}
	return nil
}

func (r *fakePhotoRepo) ExpireOverdue(now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.photos {
		if p.Status == models.PhotoStatusPurchased && p.ExpiresAt != nil && p.ExpiresAt.Before(now) {
			p.Status = models.PhotoStatusExpired
			n++
		}
	}
	return n, nil
}

type fakePurchaseRepo struct {
	mu        sync.Mutex
	nextID    uint
	purchases map[uint]*models.PhotoPurchase
}

func newFakePurchaseRepo() *fakePurchaseRepo {
	return &fakePurchaseRepo{nextID: 1, purchases: make(map[uint]*models.PhotoPurchase)}
}

func (r *fakePurchaseRepo) Create(purchase *models.PhotoPurchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	purchase.ID = r.nextID
	r.nextID++
	purchase.CreatedAt = time.Now()
	clone := *purchase
	r.purchases[purchase.ID] = &clone
	return nil
}

func (r *fakePurchaseRepo) CreateBatch(purchases []models.PhotoPurchase) error {
	for i := range purchases {
		if err := r.Create(&purchases[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakePurchaseRepo) GetByUserID(userID uint) ([]models.PhotoPurchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.PhotoPurchase
	for id := r.nextID; id > 0; id-- {
		if p, ok := r.purchases[id]; ok && p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePurchaseRepo) GetLatestByPhotoAndUser(photoID, userID uint) (*models.PhotoPurchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id := r.nextID; id > 0; id-- {
		if p, ok := r.purchases[id]; ok && p.PhotoID == photoID && p.UserID == userID {
			clone := *p
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePurchaseRepo) GetBySessionID(sessionID string, status string) ([]models.PhotoPurchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.PhotoPurchase
	for _, p := range r.purchases {
		if p.CheckoutSessionID == sessionID && p.Status == status {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePurchaseRepo) ConsumeDownload(purchaseID uint, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.purchases[purchaseID]
	if !ok {
		return false, nil
	}
	if p.Status != models.PurchaseStatusActive || p.DownloadsRemaining <= 0 {
		return false, nil
	}
	if p.ExpiresAt == nil || !p.ExpiresAt.After(now) {
		return false, nil
	}
	p.DownloadsRemaining--
	return true, nil
}

func (r *fakePurchaseRepo) DownloadSummary(userID uint, now time.Time) (*models.DownloadSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	summary := &models.DownloadSummary{}
	for _, p := range r.purchases {
		if p.UserID == userID && p.Status == models.PurchaseStatusActive && p.ExpiresAt != nil && p.ExpiresAt.After(now) {
			summary.Remaining += p.DownloadsRemaining
			summary.Total += p.DownloadsTotal
		}
	}
	return summary, nil
}

func (r *fakePurchaseRepo) ExpireOverdue(now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.purchases {
		if p.Status == models.PurchaseStatusActive && p.ExpiresAt != nil && p.ExpiresAt.Before(now) {
			p.Status = models.PurchaseStatusExpired
			n++
		}
	}
	return n, nil
}

func (r *fakePurchaseRepo) DeleteStalePending(before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, p := range r.purchases {
		if p.Status == models.PurchaseStatusPending && p.CreatedAt.Before(before) {
			delete(r.purchases, id)
			n++
		}
	}
	return n, nil
}

func (r *fakePurchaseRepo) get(id uint) *models.PhotoPurchase {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.purchases[id]; ok {
		clone := *p
		return &clone
	}
	return nil
}

type fakeTransactionRepo struct {
	mu       sync.Mutex
	txs      []models.Transaction
	failNext int
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{}
}

func (r *fakeTransactionRepo) Create(tx *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext > 0 {
		r.failNext--
		return fmt.Errorf("ledger unavailable")
	}
	tx.ID = uint(len(r.txs) + 1)
	tx.CreatedAt = time.Now()
	r.txs = append(r.txs, *tx)
	return nil
}

func (r *fakeTransactionRepo) GetByUserID(userID uint) ([]models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Transaction
	for _, tx := range r.txs {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) GetAll() ([]models.TransactionReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.TransactionReport, 0, len(r.txs))
	for _, tx := range r.txs {
		out = append(out, models.TransactionReport{
			ID:            tx.ID,
			UserID:        tx.UserID,
			ReferenceID:   tx.ReferenceID,
			Type:          tx.Type,
			Amount:        tx.Amount,
			PaymentMethod: tx.PaymentMethod,
			Status:        tx.Status,
			CreatedAt:     tx.CreatedAt,
		})
	}
	return out, nil
}

func (r *fakeTransactionRepo) SumBookingPayments(bookingID uint) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total float64
	for _, tx := range r.txs {
		if tx.Type == models.TransactionTypeBooking && tx.RelatedID != nil && *tx.RelatedID == bookingID && tx.Status == models.TransactionStatusConfirmed {
			total += tx.Amount
		}
	}
	return total, nil
}

func (r *fakeTransactionRepo) ExistsByReference(referenceID string, txType string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tx := range r.txs {
		if tx.ReferenceID == referenceID && tx.Type == txType {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeTransactionRepo) byType(txType string) []models.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Transaction
	for _, tx := range r.txs {
		if tx.Type == txType {
			out = append(out, tx)
		}
	}
	return out
}

// fakeReconRepo mirrors the all-or-nothing unit of work: nothing is applied
// to the backing stores unless the ledger insert succeeds.
type fakeReconRepo struct {
	photos    *fakePhotoRepo
	purchases *fakePurchaseRepo
	txs       *fakeTransactionRepo
}

func (r *fakeReconRepo) ActivateSession(sessionID string, purchaseDate, expiresAt time.Time, record func(activated []models.PhotoPurchase) *models.Transaction) (int64, error) {
	pending, _ := r.purchases.GetBySessionID(sessionID, models.PurchaseStatusPending)
	if len(pending) == 0 {
		return 0, nil
	}

	activated := make([]models.PhotoPurchase, len(pending))
	for i, p := range pending {
		pd, ea := purchaseDate, expiresAt
		p.Status = models.PurchaseStatusActive
		p.PurchaseDate = &pd
		p.ExpiresAt = &ea
		activated[i] = p
	}

	if err := r.txs.Create(record(activated)); err != nil {
		return 0, err
	}

	photoIDs := make([]uint, 0, len(activated))
	for _, p := range activated {
		photoIDs = append(photoIDs, p.PhotoID)
		r.purchases.mu.Lock()
		clone := p
		r.purchases.purchases[p.ID] = &clone
		r.purchases.mu.Unlock()
	}
	if err := r.photos.MarkPurchased(photoIDs, purchaseDate, expiresAt); err != nil {
		return 0, err
	}
	return int64(len(activated)), nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uint]*models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uint]*models.Booking)}
}

func (r *fakeBookingRepo) GetByID(id uint) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *fakeBookingRepo) UpdatePaymentStatus(id uint, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.bookings[id]; ok {
		b.PaymentStatus = status
	}
	return nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[uint]*models.User)}
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = r.nextID
	r.nextID++
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) EmailExists(email string) (bool, error) {
	_, err := r.GetByEmail(email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *fakeUserRepo) GetCustomers() ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		if u.Role == models.RoleCustomer {
			out = append(out, *u)
		}
	}
	return out, nil
}

type fakeAccessRepo struct {
	mu    sync.Mutex
	codes map[string]*models.GalleryAccessCode
}

func newFakeAccessRepo() *fakeAccessRepo {
	return &fakeAccessRepo{codes: make(map[string]*models.GalleryAccessCode)}
}

func (r *fakeAccessRepo) Create(code *models.GalleryAccessCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	code.ID = uint(len(r.codes) + 1)
	clone := *code
	r.codes[code.Code] = &clone
	return nil
}

func (r *fakeAccessRepo) GetByCode(code string) (*models.GalleryAccessCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	access, ok := r.codes[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *access
	return &clone, nil
}

// fakeGateway records checkout requests and can be told to fail.
type fakeGateway struct {
	mu       sync.Mutex
	fail     bool
	requests []payment.CheckoutParams
	nextID   int
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, params payment.CheckoutParams) (*payment.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return nil, fmt.Errorf("gateway error: insufficient test balance")
	}
	g.requests = append(g.requests, params)
	g.nextID++
	return &payment.CheckoutSession{
		ID:          fmt.Sprintf("cs_test_%d", g.nextID),
		CheckoutURL: fmt.Sprintf("https://checkout.example.com/cs_test_%d", g.nextID),
	}, nil
}

// memoryStorage is an in-memory media store.
type memoryStorage struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{files: make(map[string][]byte)}
}

func (s *memoryStorage) Upload(key string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[key] = data
	return nil
}

func (s *memoryStorage) Open(key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[key]
	if !ok {
		return nil, fmt.Errorf("no such key: %s", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memoryStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, key)
	return nil
}
