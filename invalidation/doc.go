// Package invalidation evicts cached read views after successful writes.
//
// Three views are cached independently: the admin dashboard, the category
// list and one detail view per category. Every mutation of a category, tip or
// user makes some of them stale. Which ones is recorded in a single
// declarative Matrix rather than spread across the write paths:
//
//	mutation            dashboard  category list  category(id)
//	category create     yes        yes            -
//	category update     yes        yes            own id
//	category delete     yes        yes            own id
//	tip create          yes        yes            tip's category
//	tip update          yes        yes            old and new category
//	tip delete          yes        yes            tip's category
//	user create         yes        -              -
//	user update         yes        -              -
//	user delete         yes        -              -
//
// Write paths call Dispatch with an Event once the write is durable, and only
// when it succeeded:
//
//	tip, err := repo.Update(ctx, tip)
//	if err != nil {
//		return err
//	}
//	return svc.Dispatch(ctx, invalidation.Event{
//		Entity:      invalidation.EntityTip,
//		Mutation:    invalidation.MutationUpdate,
//		CategoryIDs: []uuid.UUID{oldCategoryID, tip.CategoryID},
//	})
//
// The four single purpose operations (InvalidateDashboard,
// InvalidateCategoryList, InvalidateCategory and InvalidateCategoryAndList)
// remain available for callers that need one view evicted directly.
//
// # Failure semantics
//
// Evictions are synchronous: when a call returns without error every key is
// gone. Removing an absent key is not an error. A store failure is never
// swallowed; each failed key is reported as a *KeyError and all failures of
// one call are joined into a single error classified as a cache invalidation
// failure (see apperrors.IsCacheInvalidation). The remaining keys are still
// evicted.
package invalidation
