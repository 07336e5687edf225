package services

import (
	"context"
	"fmt"
)

// Recover loads the roster into the registry with every account inactive.
// Follow sets and timelines stay on disk until each user comes back. It must
// run before any transport accepts requests.
func (s *DirectoryService) Recover(ctx context.Context) error {
	list, err := s.repomanager.Users().List(ctx)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}

	names := make([]string, 0, len(list))
	for _, u := range list {
		names = append(names, u.UserName)
	}
	s.registry.Restore(names)

	s.logger.Info(ctx, "roster recovered", "users", s.registry.Len())
	return nil
}
