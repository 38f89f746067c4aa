package domain

// Profile — анкета, по которой делается бронирование.
// OwnerUserID непустой для анкет маркетплейса, заведенных самим провайдером.
// Редакционные анкеты владельца не имеют и квотам не подлежат.
type Profile struct {
	ID          string            `json:"id"`
	ProviderID  string            `json:"providerId"`
	OwnerUserID string            `json:"ownerUserId,omitempty"`
	Services    []ServiceOffering `json:"services"`
}

func (p *Profile) ProviderSourced() bool {
	return p.OwnerUserID != ""
}

// User — данные клиента из Auth Service.
type User struct {
	ID            string `json:"id"`
	EmailVerified bool   `json:"emailVerified"`
}
