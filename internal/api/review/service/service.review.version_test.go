package reviewsvc

import (
	"context"
	"errors"
	"testing"

	models "feedo/internal/api/review/models"
	"feedo/internal/common"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeVersionCounter mô phỏng NextVersionNumber: mỗi lần gọi trả số kế tiếp,
// giống việc một request song song vừa chiếm mất số trước đó.
type fakeVersionCounter struct {
	next  int
	calls int
}

func (f *fakeVersionCounter) nextNumber(ctx context.Context, projectID primitive.ObjectID) (int, error) {
	f.calls++
	n := f.next
	f.next++
	return n, nil
}

func TestInsertVersionWithRetry_DuplicateTwiceThenSuccess(t *testing.T) {
	counter := &fakeVersionCounter{next: 4}
	inserts := 0
	insert := func(ctx context.Context, v models.Version) (models.Version, error) {
		inserts++
		// Hai lần đầu đụng index unique (projectId, version)
		if inserts <= 2 {
			return models.Version{}, common.ErrDuplicate
		}
		return v, nil
	}

	version := models.Version{ProjectID: primitive.NewObjectID()}
	created, err := insertVersionWithRetry(context.Background(), version, counter.nextNumber, insert)
	if err != nil {
		t.Fatalf("Retry sau duplicate phải thành công, nhận lỗi: %v", err)
	}
	if inserts != 3 {
		t.Errorf("Phải insert đúng 3 lần, nhận %d", inserts)
	}
	if counter.calls != 3 {
		t.Errorf("Mỗi lượt thử phải lấy số version mới, nhận %d lần", counter.calls)
	}
	if created.Version != 6 {
		t.Errorf("Lượt thành công phải mang số version mới nhất (6), nhận %d", created.Version)
	}
}

func TestInsertVersionWithRetry_ExhaustedReturnsDuplicate(t *testing.T) {
	counter := &fakeVersionCounter{next: 1}
	inserts := 0
	insert := func(ctx context.Context, v models.Version) (models.Version, error) {
		inserts++
		return models.Version{}, common.ErrDuplicate
	}

	version := models.Version{ProjectID: primitive.NewObjectID()}
	_, err := insertVersionWithRetry(context.Background(), version, counter.nextNumber, insert)
	if !errors.Is(err, common.ErrDuplicate) {
		t.Fatalf("Hết lượt thử phải trả ErrDuplicate, nhận: %v", err)
	}
	if inserts != 3 {
		t.Errorf("Retry phải dừng sau đúng 3 lần insert, nhận %d", inserts)
	}
}

func TestInsertVersionWithRetry_OtherErrorNoRetry(t *testing.T) {
	counter := &fakeVersionCounter{next: 1}
	inserts := 0
	wantErr := errors.New("connection reset")
	insert := func(ctx context.Context, v models.Version) (models.Version, error) {
		inserts++
		return models.Version{}, wantErr
	}

	version := models.Version{ProjectID: primitive.NewObjectID()}
	_, err := insertVersionWithRetry(context.Background(), version, counter.nextNumber, insert)
	if !errors.Is(err, wantErr) {
		t.Fatalf("Lỗi không phải duplicate phải trả về nguyên vẹn, nhận: %v", err)
	}
	if inserts != 1 {
		t.Errorf("Lỗi không phải duplicate không được retry, nhận %d lần insert", inserts)
	}
}

func TestInsertVersionWithRetry_NextNumberErrorPropagates(t *testing.T) {
	wantErr := errors.New("find failed")
	nextNumber := func(ctx context.Context, projectID primitive.ObjectID) (int, error) {
		return 0, wantErr
	}
	insert := func(ctx context.Context, v models.Version) (models.Version, error) {
		t.Fatal("Không được insert khi lấy số version thất bại")
		return models.Version{}, nil
	}

	version := models.Version{ProjectID: primitive.NewObjectID()}
	_, err := insertVersionWithRetry(context.Background(), version, nextNumber, insert)
	if !errors.Is(err, wantErr) {
		t.Fatalf("Lỗi lấy số version phải truyền ra ngoài, nhận: %v", err)
	}
}
