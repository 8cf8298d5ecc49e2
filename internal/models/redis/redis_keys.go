package models

import "fmt"

func UserOnlineStatusKey(userID uint) string {
	return fmt.Sprintf("user_online_status_%v", userID)
}

func UserLastSeenKey(userID uint) string {
	return fmt.Sprintf("user_last_seen_%v", userID)
}

func RentalOwnerKey(rentalID uint) string {
	return fmt.Sprintf("rental_owner_%v", rentalID)
}
