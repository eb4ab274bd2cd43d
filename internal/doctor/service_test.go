package doctor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/doctor/entity"
	doctorrepo "github.com/ovaphlow/pitchfork/service-healthcare-go/internal/doctor/repo"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/storetest"
)

func newService(t *testing.T) *Service {
	t.Helper()
	r := doctorrepo.NewDoctorRepo(storetest.Open(t))
	require.NoError(t, r.EnsureTable(context.Background()))
	return NewService(r)
}

func TestDoctorLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	d, err := svc.Create(ctx, " Dr. House ", "Diagnostics", "ext 12")
	require.NoError(t, err)
	assert.Equal(t, "Dr. House", d.Name)

	got, err := svc.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, *d, *got)

	nephrology := "Nephrology"
	upd, err := svc.Update(ctx, d.ID, entity.Changes{Specialization: &nephrology})
	require.NoError(t, err)
	assert.Equal(t, "Dr. House", upd.Name)
	assert.Equal(t, "Nephrology", upd.Specialization)
	assert.Equal(t, "ext 12", upd.ContactInfo)

	require.NoError(t, svc.Delete(ctx, d.ID))
	_, err = svc.Get(ctx, d.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, d.ID), ErrNotFound)
	_, err = svc.Update(ctx, d.ID, entity.Changes{Specialization: &nephrology})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListSortedByName(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	for _, name := range []string{"Zhivago", "Acula", "Moreau"} {
		_, err := svc.Create(ctx, name, "General", "")
		require.NoError(t, err)
	}
	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"Acula", "Moreau", "Zhivago"}, []string{list[0].Name, list[1].Name, list[2].Name})
}
