package notification

import (
	"fmt"

	"github.com/magabrotheeeer/hustlefinder/internal/models"
)

func greeting(name string) string {
	if name == "" {
		return "Hi there,"
	}
	return fmt.Sprintf("Hi %s,", name)
}

// WelcomeEmail письмо после регистрации.
func WelcomeEmail(email, displayName string) models.Email {
	return models.Email{
		To:      email,
		Subject: "Welcome to HustleFinder",
		Body: greeting(displayName) + "\n\n" +
			"Your account is ready. Tell us what you enjoy, how much you can invest and how much time you have, " +
			"and we will suggest side hustles that fit.\n\n" +
			"Free accounts get 5 generations every week.",
	}
}

// UpgradeEmail письмо после оформления безлимитной подписки.
func UpgradeEmail(account *models.Account) models.Email {
	return models.Email{
		Subject: "Your HustleFinder Unlimited subscription is active",
		Body: greeting(account.DisplayName) + "\n\n" +
			"Thanks for upgrading. You can now generate as many side hustle ideas as you like.\n\n" +
			"You can manage or cancel your subscription at any time from the billing portal.",
	}
}

// DowngradeEmail письмо после окончания подписки.
func DowngradeEmail(account *models.Account) models.Email {
	return models.Email{
		Subject: "Your HustleFinder subscription has ended",
		Body: greeting(account.DisplayName) + "\n\n" +
			"Your account is back on the free plan with 5 generations per week. " +
			"You can upgrade again whenever you like.",
	}
}

// WeeklyTipsEmail еженедельный дайджест с советами.
func WeeklyTipsEmail(account *models.Account, tip string) models.Email {
	return models.Email{
		Subject: "Your weekly side hustle tip",
		Body: greeting(account.DisplayName) + "\n\n" + tip + "\n\n" +
			"You can turn these emails off in your notification settings.",
	}
}
