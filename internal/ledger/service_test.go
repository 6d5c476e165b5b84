package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/cardledger/internal/ledger"
	"github.com/MrJamesThe3rd/cardledger/internal/ledger/paginate"
)

func TestService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := ledger.NewMockRepository(ctrl)
	svc := ledger.NewService(repo)

	want := rec("TX1", "C1", "Austin", ledger.ChannelChip, "10.00")
	repo.EXPECT().GetByID("TX1").Return(want, nil)

	got, err := svc.Get("TX1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestService_Get_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := ledger.NewMockRepository(ctrl)
	svc := ledger.NewService(repo)

	repo.EXPECT().GetByID("TX999").Return(nil, ledger.ErrNotFound)

	_, err := svc.Get("TX999")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := ledger.NewMockRepository(ctrl)
	svc := ledger.NewService(repo)

	repo.EXPECT().All().Return(testRecords(), nil)

	page, err := svc.List(2, 2)
	require.NoError(t, err)

	assert.Equal(t, 4, page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "TX3", page.Items[0].ID)
	assert.Equal(t, "TX4", page.Items[1].ID)
}

func TestService_Search(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := ledger.NewMockRepository(ctrl)
	svc := ledger.NewService(repo)

	repo.EXPECT().All().Return(testRecords(), nil)

	page, err := svc.Search(ledger.Filter{CustomerID: ptr("C1")}, 1, 10)
	require.NoError(t, err)

	assert.Equal(t, 2, page.TotalCount)
	require.Len(t, page.Items, 2)

	// Matches keep the store's order.
	assert.Equal(t, "TX1", page.Items[0].ID)
	assert.Equal(t, "TX3", page.Items[1].ID)
}

// An invalid filter must fail before the dataset is touched, so no All()
// expectation is registered on the mock.
func TestService_Search_InvalidFilterFailsFast(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := ledger.NewMockRepository(ctrl)
	svc := ledger.NewService(repo)

	f := ledger.Filter{
		MinAmount: ptr(decimal.RequireFromString("100")),
		MaxAmount: ptr(decimal.RequireFromString("10")),
	}

	_, err := svc.Search(f, 1, 10)
	assert.ErrorIs(t, err, ledger.ErrInvalidFilter)
}

func TestService_Search_InvalidPagination(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := ledger.NewMockRepository(ctrl)
	svc := ledger.NewService(repo)

	repo.EXPECT().All().Return(testRecords(), nil)

	_, err := svc.Search(ledger.Filter{}, 0, 10)
	assert.ErrorIs(t, err, paginate.ErrInvalidParams)
}

func TestService_Recent(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := ledger.NewMockRepository(ctrl)
	svc := ledger.NewService(repo)

	repo.EXPECT().All().Return(testRecords(), nil)

	page, err := svc.Recent(3)
	require.NoError(t, err)

	require.Len(t, page.Items, 3)
	assert.Equal(t, "TX4", page.Items[0].ID)
	assert.Equal(t, "TX3", page.Items[1].ID)
	assert.Equal(t, "TX2", page.Items[2].ID)
}

func TestService_ByCustomer_Unknown(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := ledger.NewMockRepository(ctrl)
	svc := ledger.NewService(repo)

	repo.EXPECT().GetByCustomer("C999").Return(nil, ledger.ErrCustomerNotFound)

	_, err := svc.ByCustomer("C999", 1, 10)
	assert.ErrorIs(t, err, ledger.ErrCustomerNotFound)
}

func TestService_ChannelCounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := ledger.NewMockRepository(ctrl)
	svc := ledger.NewService(repo)

	repo.EXPECT().All().Return(testRecords(), nil)

	counts, err := svc.ChannelCounts()
	require.NoError(t, err)

	// Online has two records; Chip and Swipe tie at one and fall back to
	// name order.
	assert.Equal(t, []ledger.ChannelCount{
		{Channel: ledger.ChannelOnline, Count: 2},
		{Channel: ledger.ChannelChip, Count: 1},
		{Channel: ledger.ChannelSwipe, Count: 1},
	}, counts)
}
