package verification

import "cargotrace-backend/internal/domain/shared"

var ErrAuthorityUnavailable = shared.NewDomainError(shared.KindExternal, "authority_unavailable", "customs authority is unavailable, try again later")
