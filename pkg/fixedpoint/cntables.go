package fixedpoint

// ISDBS3CNTable maps the ISDB-S3 CNR monitor code to CNR in 0.001 dB
var ISDBS3CNTable = CNTable{
	{0x10da5, -4000}, {0x107dd, -3900}, {0x1023c, -3800},
	{0x0fcc1, -3700}, {0x0f76b, -3600}, {0x0f237, -3500},
	{0x0ed25, -3400}, {0x0e834, -3300}, {0x0e361, -3200},
	{0x0deab, -3100}, {0x0da13, -3000}, {0x0d596, -2900},
	{0x0d133, -2800}, {0x0cceb, -2700}, {0x0c8bb, -2600},
	{0x0c4a4, -2500}, {0x0c0a3, -2400}, {0x0bcba, -2300},
	{0x0b8e6, -2200}, {0x0b527, -2100}, {0x0b17d, -2000},
	{0x0ade6, -1900}, {0x0aa63, -1800}, {0x0a6f3, -1700},
	{0x0a395, -1600}, {0x0a049, -1500}, {0x09d0e, -1400},
	{0x099e4, -1300}, {0x096cb, -1200}, {0x093c1, -1100},
	{0x090c7, -1000}, {0x08ddc, -900}, {0x08b00, -800},
	{0x08833, -700}, {0x08573, -600}, {0x082c2, -500},
	{0x0801e, -400}, {0x07d87, -300}, {0x07afd, -200},
	{0x0787f, -100}, {0x0760c, 0}, {0x073a9, 100},
	{0x0714f, 200}, {0x06f02, 300}, {0x06cbf, 400},
	{0x06a88, 500}, {0x0685b, 600}, {0x06639, 700},
	{0x06421, 800}, {0x06214, 900}, {0x06010, 1000},
	{0x05e16, 1100}, {0x05c26, 1200}, {0x05a40, 1300},
	{0x05862, 1400}, {0x0568e, 1500}, {0x054c2, 1600},
	{0x05300, 1700}, {0x05146, 1800}, {0x04f94, 1900},
	{0x04deb, 2000}, {0x04c49, 2100}, {0x04ab0, 2200},
	{0x0491f, 2300}, {0x04795, 2400}, {0x04613, 2500},
	{0x04498, 2600}, {0x04325, 2700}, {0x041b8, 2800},
	{0x04053, 2900}, {0x03ef5, 3000}, {0x03d9e, 3100},
	{0x03c4d, 3200}, {0x03b02, 3300}, {0x039bf, 3400},
	{0x03881, 3500}, {0x0374a, 3600}, {0x03619, 3700},
	{0x034ee, 3800}, {0x033c9, 3900}, {0x032aa, 4000},
	{0x03191, 4100}, {0x0307d, 4200}, {0x02f6f, 4300},
	{0x02e66, 4400}, {0x02d62, 4500}, {0x02c64, 4600},
	{0x02b6b, 4700}, {0x02a77, 4800}, {0x02988, 4900},
	{0x0289e, 5000}, {0x027b9, 5100}, {0x026d9, 5200},
	{0x025fd, 5300}, {0x02526, 5400}, {0x02453, 5500},
	{0x02385, 5600}, {0x022bb, 5700}, {0x021f5, 5800},
	{0x02134, 5900}, {0x02076, 6000}, {0x01fbd, 6100},
	{0x01f08, 6200}, {0x01e56, 6300}, {0x01da9, 6400},
	{0x01cff, 6500}, {0x01c58, 6600}, {0x01bb5, 6700},
	{0x01b16, 6800}, {0x01a7b, 6900}, {0x019e2, 7000},
	{0x0194d, 7100}, {0x018bc, 7200}, {0x0182d, 7300},
	{0x017a2, 7400}, {0x0171a, 7500}, {0x01695, 7600},
	{0x01612, 7700}, {0x01593, 7800}, {0x01517, 7900},
	{0x0149d, 8000}, {0x01426, 8100}, {0x013b2, 8200},
	{0x01340, 8300}, {0x012d1, 8400}, {0x01264, 8500},
	{0x011fa, 8600}, {0x01193, 8700}, {0x0112d, 8800},
	{0x010ca, 8900}, {0x01069, 9000}, {0x0100b, 9100},
	{0x00fae, 9200}, {0x00f54, 9300}, {0x00efb, 9400},
	{0x00ea5, 9500}, {0x00e51, 9600}, {0x00dff, 9700},
	{0x00dae, 9800}, {0x00d60, 9900}, {0x00d13, 10000},
	{0x00cc8, 10100}, {0x00c7e, 10200}, {0x00c37, 10300},
	{0x00bf1, 10400}, {0x00bac, 10500}, {0x00b6a, 10600},
	{0x00b28, 10700}, {0x00ae8, 10800}, {0x00aaa, 10900},
	{0x00a6d, 11000}, {0x00a32, 11100}, {0x009f8, 11200},
	{0x009bf, 11300}, {0x00987, 11400}, {0x00951, 11500},
	{0x0091c, 11600}, {0x008e8, 11700}, {0x008b6, 11800},
	{0x00884, 11900}, {0x00854, 12000}, {0x00825, 12100},
	{0x007f7, 12200}, {0x007ca, 12300}, {0x0079e, 12400},
	{0x00773, 12500}, {0x00749, 12600}, {0x00720, 12700},
	{0x006f8, 12800}, {0x006d0, 12900}, {0x006aa, 13000},
	{0x00685, 13100}, {0x00660, 13200}, {0x0063c, 13300},
	{0x00619, 13400}, {0x005f7, 13500}, {0x005d6, 13600},
	{0x005b5, 13700}, {0x00595, 13800}, {0x00576, 13900},
	{0x00558, 14000}, {0x0053a, 14100}, {0x0051d, 14200},
	{0x00501, 14300}, {0x004e5, 14400}, {0x004c9, 14500},
	{0x004af, 14600}, {0x00495, 14700}, {0x0047b, 14800},
	{0x00462, 14900}, {0x0044a, 15000}, {0x00432, 15100},
	{0x0041b, 15200}, {0x00404, 15300}, {0x003ee, 15400},
	{0x003d8, 15500}, {0x003c3, 15600}, {0x003ae, 15700},
	{0x0039a, 15800}, {0x00386, 15900}, {0x00373, 16000},
	{0x00360, 16100}, {0x0034d, 16200}, {0x0033b, 16300},
	{0x00329, 16400}, {0x00318, 16500}, {0x00307, 16600},
	{0x002f6, 16700}, {0x002e6, 16800}, {0x002d6, 16900},
	{0x002c7, 17000}, {0x002b7, 17100}, {0x002a9, 17200},
	{0x0029a, 17300}, {0x0028c, 17400}, {0x0027e, 17500},
	{0x00270, 17600}, {0x00263, 17700}, {0x00256, 17800},
	{0x00249, 17900}, {0x0023d, 18000}, {0x00231, 18100},
	{0x00225, 18200}, {0x00219, 18300}, {0x0020e, 18400},
	{0x00203, 18500}, {0x001f8, 18600}, {0x001ed, 18700},
	{0x001e3, 18800}, {0x001d9, 18900}, {0x001cf, 19000},
	{0x001c5, 19100}, {0x001bc, 19200}, {0x001b2, 19300},
	{0x001a9, 19400}, {0x001a0, 19500}, {0x00198, 19600},
	{0x0018f, 19700}, {0x00187, 19800}, {0x0017f, 19900},
	{0x00177, 20000}, {0x0016f, 20100}, {0x00168, 20200},
	{0x00160, 20300}, {0x00159, 20400}, {0x00152, 20500},
	{0x0014b, 20600}, {0x00144, 20700}, {0x0013e, 20800},
	{0x00137, 20900}, {0x00131, 21000}, {0x0012b, 21100},
	{0x00125, 21200}, {0x0011f, 21300}, {0x00119, 21400},
	{0x00113, 21500}, {0x0010e, 21600}, {0x00108, 21700},
	{0x00103, 21800}, {0x000fe, 21900}, {0x000f9, 22000},
	{0x000f4, 22100}, {0x000ef, 22200}, {0x000eb, 22300},
	{0x000e6, 22400}, {0x000e2, 22500}, {0x000de, 22600},
	{0x000da, 22700}, {0x000d5, 22800}, {0x000d1, 22900},
	{0x000cd, 23000}, {0x000ca, 23100}, {0x000c6, 23200},
	{0x000c2, 23300}, {0x000be, 23400}, {0x000bb, 23500},
	{0x000b7, 23600}, {0x000b4, 23700}, {0x000b1, 23800},
	{0x000ae, 23900}, {0x000aa, 24000}, {0x000a7, 24100},
	{0x000a4, 24200}, {0x000a2, 24300}, {0x0009f, 24400},
	{0x0009c, 24500}, {0x00099, 24600}, {0x00097, 24700},
	{0x00094, 24800}, {0x00092, 24900}, {0x0008f, 25000},
	{0x0008d, 25100}, {0x0008b, 25200}, {0x00088, 25300},
	{0x00086, 25400}, {0x00084, 25500}, {0x00082, 25600},
	{0x00080, 25700}, {0x0007e, 25800}, {0x0007c, 25900},
	{0x0007a, 26000}, {0x00078, 26100}, {0x00076, 26200},
	{0x00074, 26300}, {0x00073, 26400}, {0x00071, 26500},
	{0x0006f, 26600}, {0x0006d, 26700}, {0x0006c, 26800},
	{0x0006a, 26900}, {0x00069, 27000}, {0x00067, 27100},
	{0x00066, 27200}, {0x00064, 27300}, {0x00063, 27400},
	{0x00061, 27500}, {0x00060, 27600}, {0x0005f, 27700},
	{0x0005d, 27800}, {0x0005c, 27900}, {0x0005b, 28000},
	{0x0005a, 28100}, {0x00059, 28200}, {0x00057, 28300},
	{0x00056, 28400}, {0x00055, 28500}, {0x00054, 28600},
	{0x00053, 28700}, {0x00052, 28800}, {0x00051, 28900},
	{0x00050, 29000}, {0x0004f, 29100}, {0x0004e, 29200},
	{0x0004d, 29300}, {0x0004c, 29400}, {0x0004b, 29500},
	{0x0004a, 29600}, {0x00049, 29700}, {0x00048, 29900},
	{0x00047, 30000},
}

// ISDBSCNTable maps the ISDB-S CNR monitor code to CNR in 0.001 dB
var ISDBSCNTable = CNTable{
	{0x05af, 0}, {0x0597, 100}, {0x057e, 200},
	{0x0567, 300}, {0x0550, 400}, {0x0539, 500},
	{0x0522, 600}, {0x050c, 700}, {0x04f6, 800},
	{0x04e1, 900}, {0x04cc, 1000}, {0x04b6, 1100},
	{0x04a1, 1200}, {0x048c, 1300}, {0x0477, 1400},
	{0x0463, 1500}, {0x044f, 1600}, {0x043c, 1700},
	{0x0428, 1800}, {0x0416, 1900}, {0x0403, 2000},
	{0x03ef, 2100}, {0x03dc, 2200}, {0x03c9, 2300},
	{0x03b6, 2400}, {0x03a4, 2500}, {0x0392, 2600},
	{0x0381, 2700}, {0x036f, 2800}, {0x035f, 2900},
	{0x034e, 3000}, {0x033d, 3100}, {0x032d, 3200},
	{0x031d, 3300}, {0x030d, 3400}, {0x02fd, 3500},
	{0x02ee, 3600}, {0x02df, 3700}, {0x02d0, 3800},
	{0x02c2, 3900}, {0x02b4, 4000}, {0x02a6, 4100},
	{0x0299, 4200}, {0x028c, 4300}, {0x027f, 4400},
	{0x0272, 4500}, {0x0265, 4600}, {0x0259, 4700},
	{0x024d, 4800}, {0x0241, 4900}, {0x0236, 5000},
	{0x022b, 5100}, {0x0220, 5200}, {0x0215, 5300},
	{0x020a, 5400}, {0x0200, 5500}, {0x01f6, 5600},
	{0x01ec, 5700}, {0x01e2, 5800}, {0x01d8, 5900},
	{0x01cf, 6000}, {0x01c6, 6100}, {0x01bc, 6200},
	{0x01b3, 6300}, {0x01aa, 6400}, {0x01a2, 6500},
	{0x0199, 6600}, {0x0191, 6700}, {0x0189, 6800},
	{0x0181, 6900}, {0x0179, 7000}, {0x0171, 7100},
	{0x0169, 7200}, {0x0161, 7300}, {0x015a, 7400},
	{0x0153, 7500}, {0x014b, 7600}, {0x0144, 7700},
	{0x013d, 7800}, {0x0137, 7900}, {0x0130, 8000},
	{0x012a, 8100}, {0x0124, 8200}, {0x011e, 8300},
	{0x0118, 8400}, {0x0112, 8500}, {0x010c, 8600},
	{0x0107, 8700}, {0x0101, 8800}, {0x00fc, 8900},
	{0x00f7, 9000}, {0x00f2, 9100}, {0x00ec, 9200},
	{0x00e7, 9300}, {0x00e2, 9400}, {0x00dd, 9500},
	{0x00d8, 9600}, {0x00d4, 9700}, {0x00cf, 9800},
	{0x00ca, 9900}, {0x00c6, 10000}, {0x00c2, 10100},
	{0x00be, 10200}, {0x00b9, 10300}, {0x00b5, 10400},
	{0x00b1, 10500}, {0x00ae, 10600}, {0x00aa, 10700},
	{0x00a6, 10800}, {0x00a3, 10900}, {0x009f, 11000},
	{0x009b, 11100}, {0x0098, 11200}, {0x0095, 11300},
	{0x0091, 11400}, {0x008e, 11500}, {0x008b, 11600},
	{0x0088, 11700}, {0x0085, 11800}, {0x0082, 11900},
	{0x007f, 12000}, {0x007c, 12100}, {0x007a, 12200},
	{0x0077, 12300}, {0x0074, 12400}, {0x0072, 12500},
	{0x006f, 12600}, {0x006d, 12700}, {0x006b, 12800},
	{0x0068, 12900}, {0x0066, 13000}, {0x0064, 13100},
	{0x0061, 13200}, {0x005f, 13300}, {0x005d, 13400},
	{0x005b, 13500}, {0x0059, 13600}, {0x0057, 13700},
	{0x0055, 13800}, {0x0053, 13900}, {0x0051, 14000},
	{0x004f, 14100}, {0x004e, 14200}, {0x004c, 14300},
	{0x004a, 14400}, {0x0049, 14500}, {0x0047, 14600},
	{0x0045, 14700}, {0x0044, 14800}, {0x0042, 14900},
	{0x0041, 15000}, {0x003f, 15100}, {0x003e, 15200},
	{0x003c, 15300}, {0x003b, 15400}, {0x003a, 15500},
	{0x0038, 15600}, {0x0037, 15700}, {0x0036, 15800},
	{0x0034, 15900}, {0x0033, 16000}, {0x0032, 16100},
	{0x0031, 16200}, {0x0030, 16300}, {0x002f, 16400},
	{0x002e, 16500}, {0x002d, 16600}, {0x002c, 16700},
	{0x002b, 16800}, {0x002a, 16900}, {0x0029, 17000},
	{0x0028, 17100}, {0x0027, 17200}, {0x0026, 17300},
	{0x0025, 17400}, {0x0024, 17500}, {0x0023, 17600},
	{0x0022, 17800}, {0x0021, 17900}, {0x0020, 18000},
	{0x001f, 18200}, {0x001e, 18300}, {0x001d, 18500},
	{0x001c, 18700}, {0x001b, 18900}, {0x001a, 19000},
	{0x0019, 19200}, {0x0018, 19300}, {0x0017, 19500},
	{0x0016, 19700}, {0x0015, 19900}, {0x0014, 20000},
}
