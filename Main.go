package main

import (
	"flag"
	"log"

	"khabee/config"
	"khabee/routers"
)

func main() {
	seed := flag.Bool("seed", false, "create sample kitchens and menus, then exit")
	flag.Parse()

	db, err := config.SetupMySQLConnection()
	if err != nil {
		panic("failed to connect to database")
	}
	defer func() {
		dbInstance, _ := db.DB()
		_ = dbInstance.Close()
	}()

	if *seed {
		if err := config.SeedDatabase(db); err != nil {
			panic(err)
		}
		log.Println("sample data created")
		return
	}

	rdb, err := config.SetupRedisConnection()
	if err != nil {
		panic("failed to connect to redis")
	}
	defer rdb.Close()

	router := routers.SetupRouters(db, rdb)
	router.Run(":3000")
}
